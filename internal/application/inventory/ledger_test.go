package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/testutil"
)

func TestLedger_Credit_CreaEntradaYRegistraMovimiento(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	ledger := inventory.NewLedger()

	err := store.Run(ctx, func(r inventory.Repos) error {
		item, err := ledger.Credit(ctx, r, inventory.CreditInput{ProductID: p.ID, Quantity: 10, PurchaseOrderID: 77, UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, int64(10), item.Quantity)
		require.NotNil(t, item.PurchaseOrderID)
		assert.Equal(t, int64(77), *item.PurchaseOrderID)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), store.LedgerQuantity(p.ID))
	assert.Equal(t, int64(10), store.MovementSum(p.ID))

	movs, err := store.Movements().ListByProduct(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementCausePurchaseReceipt, movs[0].Cause)
	assert.Equal(t, int64(10), movs[0].BalanceAfter)
}

func TestLedger_Credit_ReutilizaLaEntradaExistente(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	p := store.SeedProduct("Tuerca", "1.00")
	ledger := inventory.NewLedger()

	for _, q := range []int64{4, 6} {
		err := store.Run(ctx, func(r inventory.Repos) error {
			_, err := ledger.Credit(ctx, r, inventory.CreditInput{ProductID: p.ID, Quantity: q, PurchaseOrderID: q})
			return err
		})
		require.NoError(t, err)
	}

	items, total, err := store.WarehouseItems().List(ctx, repositoryFilter(p.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, total, "una sola entrada por producto")
	assert.Equal(t, int64(10), items[0].Quantity)
}

func TestLedger_Debit_SinEntrada_EsInconsistencia(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	p := store.SeedProduct("Arandela", "1.00")
	ledger := inventory.NewLedger()

	err := store.Run(ctx, func(r inventory.Repos) error {
		_, err := ledger.Debit(ctx, r, inventory.DebitInput{ProductID: p.ID, Quantity: 1, SalesOrderID: 1})
		return err
	})
	require.Error(t, err)

	var inc *domain.LedgerInconsistencyError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, p.ID, inc.ProductID)
	assert.False(t, errors.Is(err, domain.ErrInsufficientStock), "no debe confundirse con stock insuficiente")
	assert.Equal(t, int64(-1), store.LedgerQuantity(p.ID), "no se crea una entrada implícita")
}

func TestLedger_Debit_RestaYRegistraMovimientoNegativo(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	p := store.SeedProduct("Clavo", "1.00")
	ledger := inventory.NewLedger()

	require.NoError(t, store.Run(ctx, func(r inventory.Repos) error {
		_, err := ledger.Credit(ctx, r, inventory.CreditInput{ProductID: p.ID, Quantity: 5, PurchaseOrderID: 1})
		return err
	}))
	require.NoError(t, store.Run(ctx, func(r inventory.Repos) error {
		_, err := ledger.Debit(ctx, r, inventory.DebitInput{ProductID: p.ID, Quantity: 3, SalesOrderID: 2})
		return err
	}))

	assert.Equal(t, int64(2), store.LedgerQuantity(p.ID))
	assert.Equal(t, int64(2), store.MovementSum(p.ID), "la suma de movimientos coincide con el libro")
}

func TestLedger_CantidadNoPositiva_EsValidacion(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	ledger := inventory.NewLedger()

	err := store.Run(ctx, func(r inventory.Repos) error {
		_, err := ledger.Credit(ctx, r, inventory.CreditInput{ProductID: 1, Quantity: 0})
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLedger_Credit_DesbordeDeCantidad_EsValidacion(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	store.SeedLedger(p.ID, entity.MaxQuantity-1)
	ledger := inventory.NewLedger()

	err := store.Run(ctx, func(r inventory.Repos) error {
		_, err := ledger.Credit(ctx, r, inventory.CreditInput{ProductID: p.ID, Quantity: 2, PurchaseOrderID: 1})
		return err
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lte=2147483647", verr.Fields["quantity"])
	assert.Equal(t, entity.MaxQuantity-1, store.LedgerQuantity(p.ID))

	// Justo hasta el tope sí se acredita.
	require.NoError(t, store.Run(ctx, func(r inventory.Repos) error {
		_, err := ledger.Credit(ctx, r, inventory.CreditInput{ProductID: p.ID, Quantity: 1, PurchaseOrderID: 1})
		return err
	}))
	assert.Equal(t, entity.MaxQuantity, store.LedgerQuantity(p.ID))
}
