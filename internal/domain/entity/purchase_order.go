package entity

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de PurchaseOrder. La única transición válida es PENDING -> RECEIVED.
const (
	PurchaseOrderPending  = "PENDING"
	PurchaseOrderReceived = "RECEIVED"
)

// PurchaseOrder representa un pedido a un proveedor para reponer un producto.
// UnitPrice se captura al crear y no depende del precio actual del producto.
type PurchaseOrder struct {
	ID          int64
	Number      string // PO-NNNN
	ProductID   int64
	ProductName string // solo lectura (join)
	Supplier    string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Status      string
	OrderDate   time.Time
	ReceivedAt  *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsReceived indica si la orden ya acreditó stock.
func (po *PurchaseOrder) IsReceived() bool {
	return po.Status == PurchaseOrderReceived
}

// Receive aplica la transición PENDING -> RECEIVED.
// Devuelve domain.ErrAlreadyReceived si la orden ya estaba recibida; en ese caso no cambia nada.
func (po *PurchaseOrder) Receive(now time.Time) error {
	if po.Status != PurchaseOrderPending {
		return domain.ErrAlreadyReceived
	}
	po.Status = PurchaseOrderReceived
	po.ReceivedAt = &now
	po.UpdatedAt = now
	return nil
}

// Total es quantity * unit_price.
func (po *PurchaseOrder) Total() decimal.Decimal {
	return po.UnitPrice.Mul(decimal.NewFromInt(po.Quantity))
}
