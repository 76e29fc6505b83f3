package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/application/sales"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/testutil"
)

func TestWarehouseList_SoloCantidadPositiva(t *testing.T) {
	store := testutil.NewStore()
	a := store.SeedProduct("Tornillo", "1.00")
	b := store.SeedProduct("Tuerca", "1.00")
	store.SeedLedger(a.ID, 4)
	store.SeedLedger(b.ID, 0)
	uc := usecase.NewWarehouseUseCase(store.WarehouseItems(), store.Movements(), store.Products())

	out, err := uc.List(context.Background(), 0, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Tornillo", out.Items[0].ProductName)
	assert.Equal(t, a.Code, out.Items[0].ProductCode)

	out, err = uc.List(context.Background(), b.ID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	out, err = uc.List(context.Background(), 0, "tuer", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

// El historial refleja recepción y venta con saldos consecutivos.
func TestWarehouseListMovements_Auditoria(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "2.00")
	ledger := inventory.NewLedger()
	po := purchase.NewUseCase(store, ledger, store.PurchaseOrders(), store.Products(), zerolog.Nop())
	so := sales.NewUseCase(store, ledger, store.SalesOrders(), nil, zerolog.Nop())
	uc := usecase.NewWarehouseUseCase(store.WarehouseItems(), store.Movements(), store.Products())

	order, err := po.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: 10, UnitPrice: money("1"),
	})
	require.NoError(t, err)
	require.NoError(t, po.Receive(context.Background(), "u", order.ID))
	_, err = so.Create(context.Background(), "u", dto.CreateSalesOrderRequest{
		CustomerName: "Ana",
		Items:        []dto.SalesOrderItemRequest{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	movs, err := uc.ListMovements(context.Background(), p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementCauseSale, movs[0].Cause)
	assert.Equal(t, int64(-4), movs[0].Delta)
	assert.Equal(t, int64(6), movs[0].BalanceAfter)
	assert.Equal(t, entity.MovementCausePurchaseReceipt, movs[1].Cause)
	assert.Equal(t, int64(10), movs[1].BalanceAfter)
	require.NotNil(t, movs[1].PurchaseOrderID)
	assert.Equal(t, order.ID, *movs[1].PurchaseOrderID)

	_, err = uc.ListMovements(context.Background(), 999, dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
