package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SalesOrderFilter parámetros de listado de órdenes de venta.
type SalesOrderFilter struct {
	CustomerName string
	Ordering     string // order_date, total_amount (prefijo "-" para descendente)
	Limit        int
	Offset       int
}

// SalesOrderRepository define el puerto de persistencia para SalesOrder.
// GetByID y List calculan TotalAmount desde los ítems persistidos.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	CreateItem(ctx context.Context, item *entity.SalesOrderItem) error
	GetByID(ctx context.Context, id int64) (*entity.SalesOrder, error)
	List(ctx context.Context, f SalesOrderFilter) ([]*entity.SalesOrder, int, error)
}
