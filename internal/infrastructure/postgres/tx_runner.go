package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Ante deadlock o fallo de serialización repite la transacción completa según la RetryPolicy.
type TxRunner struct {
	pool   *pgxpool.Pool
	policy RetryPolicy
	log    zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, policy RetryPolicy, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, policy: policy, log: log.With().Str("component", "tx").Logger()}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= r.policy.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", r.policy.MaxRetries, err)
		}
		wait := r.policy.delay(attempt)
		r.log.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", wait).Msg("reintentando transacción")
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos construye los repositorios sobre q (pool o tx).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Products:       NewProductRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		WarehouseItems: NewWarehouseItemRepository(q),
		Movements:      NewStockMovementRepository(q),
		SalesOrders:    NewSalesOrderRepository(q),
		Sequences:      NewSequenceRepository(q),
	}
}
