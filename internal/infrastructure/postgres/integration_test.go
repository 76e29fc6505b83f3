//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/application/sales"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{
		DatabaseURL: fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxConns:    20,
		MinConns:    1,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	// Idempotente.
	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	return pool
}

type fixture struct {
	pool     *pgxpool.Pool
	tx       *postgres.TxRunner
	products *usecase.ProductUseCase
	purchase *purchase.UseCase
	sales    *sales.UseCase
}

func newFixture(t *testing.T) *fixture {
	pool := setupTestDB(t)
	tx := postgres.NewTxRunner(pool, postgres.DefaultRetryPolicy(), zerolog.Nop())
	repos := postgres.NewRepos(pool)
	ledger := inventory.NewLedger()
	return &fixture{
		pool:     pool,
		tx:       tx,
		products: usecase.NewProductUseCase(tx, repos.Products),
		purchase: purchase.NewUseCase(tx, ledger, repos.PurchaseOrders, repos.Products, zerolog.Nop()),
		sales:    sales.NewUseCase(tx, ledger, repos.SalesOrders, nil, zerolog.Nop()),
	}
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) stockWithReceipt(t *testing.T, name string, qty int64) *dto.ProductResponse {
	t.Helper()
	ctx := context.Background()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: name, Price: money("2.50")})
	require.NoError(t, err)
	po, err := f.purchase.Create(ctx, "", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: qty, UnitPrice: money("1"),
	})
	require.NoError(t, err)
	require.NoError(t, f.purchase.Receive(ctx, "", po.ID))
	return p
}

func TestIntegration_FlujoCompletoDeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Tornillo", Price: money("2.50")})
	require.NoError(t, err)
	assert.Equal(t, "PROD-001", p.Code)
	assert.Equal(t, int64(0), p.Stock)

	po, err := f.purchase.Create(ctx, "", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: 10, UnitPrice: money("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-0001", po.Number)

	require.NoError(t, f.purchase.Receive(ctx, "", po.ID))
	assert.Equal(t, int64(10), f.stock(t, p.ID))

	err = f.purchase.Receive(ctx, "", po.ID)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReceived))
	assert.Equal(t, int64(10), f.stock(t, p.ID))

	so, err := f.sales.Create(ctx, "", dto.CreateSalesOrderRequest{
		CustomerName: "Ana",
		Items:        []dto.SalesOrderItemRequest{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-0001", so.Number)
	assert.Equal(t, "10.00", so.TotalAmount.StringFixed(2))
	assert.Equal(t, int64(6), f.stock(t, p.ID))

	_, err = f.sales.Create(ctx, "", dto.CreateSalesOrderRequest{
		CustomerName: "Ana",
		Items:        []dto.SalesOrderItemRequest{{ProductID: p.ID, Quantity: 4}, {ProductID: p.ID, Quantity: 3}},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(6), f.stock(t, p.ID), "la venta fallida se revierte completa")

	var sum int64
	require.NoError(t, f.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE product_id = $1`, p.ID).Scan(&sum))
	assert.Equal(t, int64(6), sum)
}

func TestIntegration_VentasConcurrentesSinSobreventa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.stockWithReceipt(t, "A", 20)
	b := f.stockWithReceipt(t, "B", 20)

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := 0
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Órdenes con productos en orden inverso para forzar bloqueos cruzados.
			items := []dto.SalesOrderItemRequest{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 1}}
			if i%2 == 0 {
				items[0], items[1] = items[1], items[0]
			}
			_, err := f.sales.Create(ctx, "", dto.CreateSalesOrderRequest{CustomerName: "c", Items: items})
			if err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, sold)
	assert.Equal(t, int64(0), f.stock(t, a.ID))
	assert.Equal(t, int64(0), f.stock(t, b.ID))

	var numbers int
	require.NoError(t, f.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT so_number) FROM sales_orders`).Scan(&numbers))
	assert.Equal(t, 20, numbers)
}

func TestIntegration_RecepcionesConcurrentesUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Tuerca", Price: money("1")})
	require.NoError(t, err)
	po, err := f.purchase.Create(ctx, "", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: 7, UnitPrice: money("1"),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.purchase.Receive(ctx, "", po.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrAlreadyReceived))
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int64(7), f.stock(t, p.ID))
}

func TestIntegration_EliminarProductoEnCascada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.stockWithReceipt(t, "Martillo", 5)

	require.NoError(t, f.products.Delete(ctx, p.ID))

	var items int
	require.NoError(t, f.pool.QueryRow(ctx, `SELECT COUNT(*) FROM warehouse_items WHERE product_id = $1`, p.ID).Scan(&items))
	assert.Zero(t, items)
	assert.True(t, errors.Is(f.products.Delete(ctx, p.ID), domain.ErrNotFound))
}

// Una recepción que llevaría la entrada por encima de INTEGER se rechaza y el libro no cambia.
func TestIntegration_RecepcionAcumuladaFueraDeRango(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.stockWithReceipt(t, "Arandela", entity.MaxQuantity)

	po, err := f.purchase.Create(ctx, "", dto.CreatePurchaseOrderRequest{
		ProductID: p.ID, Supplier: "ACME", Quantity: 1, UnitPrice: money("1"),
	})
	require.NoError(t, err)
	err = f.purchase.Receive(ctx, "", po.ID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity")
	assert.Equal(t, entity.MaxQuantity, f.stock(t, p.ID))

	got, err := f.purchase.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, got.Status)

	// La base informa el desborde como 22003, el código que traducen los repositorios.
	_, err = f.pool.Exec(ctx, `UPDATE warehouse_items SET quantity = quantity + 1 WHERE product_id = $1`, p.ID)
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "22003", pgErr.Code)

	err = postgres.NewPurchaseOrderRepository(f.pool).Create(ctx, &entity.PurchaseOrder{Quantity: 3_000_000_000})
	require.ErrorAs(t, err, &verr)
}
