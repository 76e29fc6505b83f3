package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Ledger concentra las únicas mutaciones permitidas sobre el libro de almacén.
// Credit y Debit deben llamarse con repositorios de una transacción abierta (TxRunner.Run):
// la fila de WarehouseItem queda bloqueada hasta el Commit.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el libro.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// CreditInput entrada para acreditar stock por recepción de una orden de compra.
type CreditInput struct {
	ProductID       int64
	Quantity        int64
	PurchaseOrderID int64
	UserID          string
}

// DebitInput entrada para debitar stock por una venta.
type DebitInput struct {
	ProductID    int64
	Quantity     int64
	SalesOrderID int64
	UserID       string
}

// Credit obtiene o crea la entrada del producto, suma la cantidad, enlaza la orden de compra
// y registra el movimiento.
func (l *Ledger) Credit(ctx context.Context, r Repos, in CreditInput) (*entity.WarehouseItem, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "gt=0")
	}
	item, err := r.WarehouseItems.EnsureForProduct(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("ledger credit: %w", err)
	}
	if in.Quantity > entity.MaxQuantity-item.Quantity {
		return nil, domain.NewValidationError("quantity", fmt.Sprintf("lte=%d", entity.MaxQuantity))
	}
	now := l.now()
	poID := in.PurchaseOrderID
	item.Quantity += in.Quantity
	item.PurchaseOrderID = &poID
	item.UpdatedAt = now
	if err := r.WarehouseItems.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("ledger credit: %w", err)
	}
	itemID := item.ID
	mov := &entity.StockMovement{
		ProductID:       in.ProductID,
		WarehouseItemID: &itemID,
		Delta:           in.Quantity,
		Cause:           entity.MovementCausePurchaseReceipt,
		PurchaseOrderID: &poID,
		BalanceAfter:    item.Quantity,
		CreatedBy:       in.UserID,
		CreatedAt:       now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("ledger credit: %w", err)
	}
	return item, nil
}

// Debit localiza la entrada del producto (bloqueada) y resta la cantidad.
// Si el producto no tiene entrada devuelve *domain.LedgerInconsistencyError: nunca se asume stock 0.
func (l *Ledger) Debit(ctx context.Context, r Repos, in DebitInput) (*entity.WarehouseItem, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "gt=0")
	}
	item, err := r.WarehouseItems.GetByProductForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("ledger debit: %w", err)
	}
	if item == nil {
		return nil, &domain.LedgerInconsistencyError{ProductID: in.ProductID, Reason: "sin entrada en el libro de almacén"}
	}
	if item.Quantity < in.Quantity {
		return nil, &domain.LedgerInconsistencyError{
			ProductID: in.ProductID,
			Reason:    fmt.Sprintf("la entrada tiene %d unidades y se intentan debitar %d", item.Quantity, in.Quantity),
		}
	}
	now := l.now()
	item.Quantity -= in.Quantity
	item.UpdatedAt = now
	if err := r.WarehouseItems.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("ledger debit: %w", err)
	}
	itemID := item.ID
	soID := in.SalesOrderID
	mov := &entity.StockMovement{
		ProductID:       in.ProductID,
		WarehouseItemID: &itemID,
		Delta:           -in.Quantity,
		Cause:           entity.MovementCauseSale,
		SalesOrderID:    &soID,
		BalanceAfter:    item.Quantity,
		CreatedBy:       in.UserID,
		CreatedAt:       now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("ledger debit: %w", err)
	}
	return item, nil
}
