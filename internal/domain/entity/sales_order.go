package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder es un pedido de cliente. El stock se descuenta al crearlo.
// TotalAmount se calcula siempre desde los ítems persistidos.
type SalesOrder struct {
	ID           int64
	Number       string // SO-NNNN
	CustomerName string
	OrderDate    time.Time
	CreatedBy    string
	CreatedAt    time.Time
	TotalAmount  decimal.Decimal
	Items        []*SalesOrderItem
}

// SalesOrderItem es una línea de SalesOrder. Price se copia del producto al crear.
type SalesOrderItem struct {
	ID           int64
	SalesOrderID int64
	ProductID    int64
	ProductCode  string // solo lectura (join)
	ProductName  string // solo lectura (join)
	Quantity     int64
	Price        decimal.Decimal
}

// Subtotal es quantity * price.
func (i *SalesOrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// ComputeTotal recalcula TotalAmount a partir de Items.
func (o *SalesOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	o.TotalAmount = total
	return total
}
