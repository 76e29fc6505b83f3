package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderFilter parámetros de listado de órdenes de compra.
type PurchaseOrderFilter struct {
	Status      string
	ProductName string
	Ordering    string // order_date, supplier (prefijo "-" para descendente)
	Limit       int
	Offset      int
}

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la fila de la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, f PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error)
	Delete(ctx context.Context, id int64) error
}
