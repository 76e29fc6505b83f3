package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// WarehouseItemFilter parámetros de listado del libro de almacén.
type WarehouseItemFilter struct {
	ProductID int64  // 0 = todos
	Search    string // nombre o código del producto
	Limit     int
	Offset    int
}

// WarehouseItemRepository define el puerto para las entradas del libro de almacén.
// Los métodos *ForUpdate deben usarse dentro de una transacción.
type WarehouseItemRepository interface {
	// GetByProductForUpdate devuelve la entrada del producto bloqueada (nil si no existe).
	GetByProductForUpdate(ctx context.Context, productID int64) (*entity.WarehouseItem, error)
	// EnsureForProduct obtiene o crea (cantidad 0) la entrada del producto y la bloquea.
	EnsureForProduct(ctx context.Context, productID int64) (*entity.WarehouseItem, error)
	// LockProducts bloquea las entradas existentes de los productos en orden ascendente de id.
	LockProducts(ctx context.Context, productIDs []int64) error
	Update(ctx context.Context, item *entity.WarehouseItem) error
	// List devuelve solo entradas con cantidad > 0, más recientes primero.
	List(ctx context.Context, f WarehouseItemFilter) ([]*entity.WarehouseItem, int, error)
}
