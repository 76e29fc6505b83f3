package purchase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/testutil"
)

func newUseCase(store *testutil.Store) *purchase.UseCase {
	return purchase.NewUseCase(store, inventory.NewLedger(), store.PurchaseOrders(), store.Products(), zerolog.Nop())
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func createPO(t *testing.T, uc *purchase.UseCase, productID, qty int64) *dto.PurchaseOrderResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		ProductID: productID,
		Supplier:  "ACME",
		Quantity:  qty,
		UnitPrice: money("3.10"),
	})
	require.NoError(t, err)
	return out
}

func stockOf(t *testing.T, store *testutil.Store, productID int64) int64 {
	t.Helper()
	n, err := store.Products().Stock(context.Background(), productID)
	require.NoError(t, err)
	return n
}

func TestCreate_QuedaPendienteConPrecioCapturado(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "9.99")
	uc := newUseCase(store)

	out := createPO(t, uc, p.ID, 10)

	assert.Equal(t, "PO-0001", out.Number)
	assert.Equal(t, entity.PurchaseOrderPending, out.Status)
	assert.Equal(t, "3.10", out.UnitPrice.StringFixed(2), "el precio unitario no depende del precio del producto")
	assert.Equal(t, "31.00", out.Total.StringFixed(2))
	assert.Equal(t, int64(0), stockOf(t, store, p.ID), "crear no acredita stock")
}

func TestCreate_NumeracionSecuencialSinHuecos(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)

	for i := 1; i <= 12; i++ {
		out := createPO(t, uc, p.ID, 1)
		assert.Equal(t, fmt.Sprintf("PO-%04d", i), out.Number)
	}
}

func TestCreate_ProductoInexistente(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)

	_, err := uc.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{ProductID: 99, Supplier: "ACME", Quantity: 1, UnitPrice: money("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Un intento fallido no consume número.
	p := store.SeedProduct("Tornillo", "1.00")
	out := createPO(t, uc, p.ID, 1)
	assert.Equal(t, "PO-0001", out.Number)
}

func TestCreate_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)

	_, err := uc.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{ProductID: p.ID, Supplier: "ACME", Quantity: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{ProductID: p.ID, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: 1, UnitPrice: money("-1"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	_, err = uc.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{ProductID: p.ID, Supplier: "ACME", Quantity: 1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["unit_price"], "sin precio unitario")

	_, err = uc.Create(context.Background(), "u", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: 3_000_000_000, UnitPrice: money("1"),
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lte", verr.Fields["quantity"], "la cantidad no cabe en INTEGER")

	// Ningún intento rechazado consume número.
	assert.Equal(t, "PO-0001", createPO(t, uc, p.ID, entity.MaxQuantity).Number)
}

func TestUpdate_CantidadFueraDeRango(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	huge := int64(3_000_000_000)
	_, err := uc.Update(context.Background(), po.ID, dto.UpdatePurchaseOrderRequest{Quantity: &huge})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lte", verr.Fields["quantity"])

	got, err := uc.GetByID(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
}

// Recepciones acumuladas que desbordarían la entrada del libro se rechazan sin efectos.
func TestReceive_DesbordeDelLibro_NoAcredita(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	store.SeedLedger(p.ID, entity.MaxQuantity-5)
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	err := uc.Receive(context.Background(), "u", po.ID)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Equal(t, entity.MaxQuantity-5, store.LedgerQuantity(p.ID))
	assert.Equal(t, int64(0), store.MovementSum(p.ID))
	got, err := uc.GetByID(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, got.Status)
}

func TestReceive_AcreditaStock(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	require.NoError(t, uc.Receive(context.Background(), "user-1", po.ID))

	assert.Equal(t, int64(10), stockOf(t, store, p.ID))
	got, err := uc.GetByID(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, got.Status)
	assert.NotNil(t, got.ReceivedAt)

	items, _, err := store.WarehouseItems().List(context.Background(), repoFilter(p.ID))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].PurchaseOrderID)
	assert.Equal(t, po.ID, *items[0].PurchaseOrderID, "la entrada referencia la orden que la acreditó")
}

// Recibir dos veces se rechaza como conflicto y el stock no cambia.
func TestReceive_Idempotente(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	require.NoError(t, uc.Receive(context.Background(), "u", po.ID))
	err := uc.Receive(context.Background(), "u", po.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReceived))
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, int64(10), stockOf(t, store, p.ID))
	assert.Equal(t, int64(10), store.MovementSum(p.ID))
}

func TestReceive_DosOrdenesDelMismoProducto_Suman(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)

	require.NoError(t, uc.Receive(context.Background(), "u", createPO(t, uc, p.ID, 10).ID))
	require.NoError(t, uc.Receive(context.Background(), "u", createPO(t, uc, p.ID, 5).ID))

	assert.Equal(t, int64(15), stockOf(t, store, p.ID))
}

// Un fallo después de escribir el estado y antes de escribir el libro deja todo como estaba.
func TestReceive_Atomico_FalloEnElLibro(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	boom := errors.New("disco lleno")
	store.FailOn("WarehouseItems.EnsureForProduct", boom)

	err := uc.Receive(context.Background(), "u", po.ID)
	require.ErrorIs(t, err, boom)

	got, err := uc.GetByID(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, got.Status, "la orden sigue PENDING")
	assert.Nil(t, got.ReceivedAt)
	assert.Equal(t, int64(-1), store.LedgerQuantity(p.ID), "el libro no cambió")
	assert.Equal(t, int64(0), stockOf(t, store, p.ID))

	// Tras corregir el fallo la recepción funciona una sola vez.
	store.ClearFailures()
	require.NoError(t, uc.Receive(context.Background(), "u", po.ID))
	assert.Equal(t, int64(10), stockOf(t, store, p.ID))
}

func TestReceive_FalloAlRegistrarMovimiento_RevierteTodo(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	store.FailOn("Movements.Create", errors.New("fallo"))
	require.Error(t, uc.Receive(context.Background(), "u", po.ID))

	got, err := uc.GetByID(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, got.Status)
	assert.Equal(t, int64(0), stockOf(t, store, p.ID))
}

func TestReceive_OrdenInexistente(t *testing.T) {
	uc := newUseCase(testutil.NewStore())
	err := uc.Receive(context.Background(), "u", 123)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_SoloMientrasPendiente(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 10)

	qty := int64(20)
	supplier := "Otro proveedor"
	out, err := uc.Update(context.Background(), po.ID, dto.UpdatePurchaseOrderRequest{Quantity: &qty, Supplier: &supplier})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.Quantity)
	assert.Equal(t, "Otro proveedor", out.Supplier)

	require.NoError(t, uc.Receive(context.Background(), "u", po.ID))
	assert.Equal(t, int64(20), stockOf(t, store, p.ID))

	_, err = uc.Update(context.Background(), po.ID, dto.UpdatePurchaseOrderRequest{Quantity: &qty})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestDelete_ConservaElStockAcreditado(t *testing.T) {
	store := testutil.NewStore()
	p := store.SeedProduct("Tornillo", "1.00")
	uc := newUseCase(store)
	po := createPO(t, uc, p.ID, 8)
	require.NoError(t, uc.Receive(context.Background(), "u", po.ID))

	require.NoError(t, uc.Delete(context.Background(), po.ID))

	assert.Equal(t, int64(8), stockOf(t, store, p.ID))
	items, _, err := store.WarehouseItems().List(context.Background(), repoFilter(p.ID))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].PurchaseOrderID)
}

func TestList_FiltraPorEstadoYProducto(t *testing.T) {
	store := testutil.NewStore()
	a := store.SeedProduct("Tornillo", "1.00")
	b := store.SeedProduct("Martillo", "1.00")
	uc := newUseCase(store)
	poA := createPO(t, uc, a.ID, 1)
	createPO(t, uc, b.ID, 1)
	require.NoError(t, uc.Receive(context.Background(), "u", poA.ID))

	out, err := uc.List(context.Background(), "received", "", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, poA.ID, out.Items[0].ID)

	out, err = uc.List(context.Background(), "", "mart", "order_date", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Martillo", out.Items[0].ProductName)
	assert.Equal(t, 20, out.Page.Limit)

	_, err = uc.List(context.Background(), "SHIPPED", "", "", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.List(context.Background(), "", "", "price", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
