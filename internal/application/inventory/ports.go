package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products       repository.ProductRepository
	PurchaseOrders repository.PurchaseOrderRepository
	WarehouseItems repository.WarehouseItemRepository
	Movements      repository.StockMovementRepository
	SalesOrders    repository.SalesOrderRepository
	Sequences      repository.SequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo. La implementación puede reintentar fn ante
// deadlocks o fallos de serialización, por lo que fn no debe tener efectos fuera de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
