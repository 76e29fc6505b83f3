package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductFilter parámetros de listado de productos.
// Search busca en nombre, código y descripción (sin distinguir mayúsculas).
// Ordering acepta name, price, stock, created_at con prefijo "-" opcional.
type ProductFilter struct {
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las lecturas devuelven Stock derivado del libro de almacén.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	Delete(ctx context.Context, id int64) error
	// Stock suma las cantidades de las entradas del libro para el producto (0 si no hay).
	Stock(ctx context.Context, productID int64) (int64, error)
}
