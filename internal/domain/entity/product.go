package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock no se persiste: es la suma de las entradas del libro de almacén (WarehouseItem)
// y lo rellenan los repositorios en cada lectura.
type Product struct {
	ID          int64
	Code        string // PROD-NNN, asignado una sola vez al crear
	Name        string // único
	Description string
	Price       decimal.Decimal // 2 decimales
	ImageURL    string
	Stock       int64 // derivado, solo lectura
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
