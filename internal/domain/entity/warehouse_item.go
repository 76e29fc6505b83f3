package entity

import (
	"math"
	"time"
)

// MaxQuantity es el tope de las columnas de cantidad (INTEGER en Postgres).
const MaxQuantity int64 = math.MaxInt32

// WarehouseItem es la entrada del libro de almacén de un producto (una por producto).
// Se acredita al recibir órdenes de compra y se debita al vender.
type WarehouseItem struct {
	ID              int64
	ProductID       int64
	ProductCode     string // solo lectura (join)
	ProductName     string // solo lectura (join)
	Quantity        int64
	PurchaseOrderID *int64 // última orden de compra que la acreditó
	AddedAt         time.Time
	UpdatedAt       time.Time
}
