package entity

import "time"

// Causas de un movimiento de stock.
const (
	MovementCausePurchaseReceipt = "PURCHASE_RECEIPT"
	MovementCauseSale            = "SALE"
)

// StockMovement es un registro inmutable de cada cambio en el libro de almacén.
// Delta positivo acredita, negativo debita. La suma de Delta por producto
// coincide con WarehouseItem.Quantity.
type StockMovement struct {
	ID              int64
	ProductID       int64
	WarehouseItemID *int64
	Delta           int64
	Cause           string
	PurchaseOrderID *int64
	SalesOrderID    *int64
	BalanceAfter    int64
	CreatedBy       string
	CreatedAt       time.Time
}
