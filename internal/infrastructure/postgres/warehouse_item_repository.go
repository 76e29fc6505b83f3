package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.WarehouseItemRepository = (*WarehouseItemRepo)(nil)

// WarehouseItemRepo libro de almacén sobre PostgreSQL: una fila por producto (UNIQUE product_id).
type WarehouseItemRepo struct {
	q Querier
}

// NewWarehouseItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseItemRepository(q Querier) *WarehouseItemRepo {
	return &WarehouseItemRepo{q: q}
}

const warehouseItemColumns = `id, product_id, quantity, purchase_order_id, added_at, updated_at`

func scanWarehouseItem(row pgx.Row) (*entity.WarehouseItem, error) {
	var it entity.WarehouseItem
	if err := row.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.PurchaseOrderID, &it.AddedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByProductForUpdate devuelve la entrada del producto bloqueada (FOR UPDATE), o nil si no existe.
func (r *WarehouseItemRepo) GetByProductForUpdate(ctx context.Context, productID int64) (*entity.WarehouseItem, error) {
	it, err := scanWarehouseItem(r.q.QueryRow(ctx,
		`SELECT `+warehouseItemColumns+` FROM warehouse_items WHERE product_id = $1 FOR UPDATE`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse item: %w", err)
	}
	return it, nil
}

// EnsureForProduct crea la entrada con cantidad 0 si no existe y la devuelve bloqueada.
// Dos recepciones concurrentes del mismo producto terminan sobre la misma fila.
func (r *WarehouseItemRepo) EnsureForProduct(ctx context.Context, productID int64) (*entity.WarehouseItem, error) {
	if _, err := r.q.Exec(ctx,
		`INSERT INTO warehouse_items (product_id, quantity) VALUES ($1, 0) ON CONFLICT (product_id) DO NOTHING`,
		productID,
	); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ensure warehouse item: %w", err)
	}
	it, err := r.GetByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, &domain.LedgerInconsistencyError{ProductID: productID, Reason: "entrada no visible tras crearla"}
	}
	return it, nil
}

// LockProducts bloquea las entradas existentes de los productos en orden ascendente de product_id.
func (r *WarehouseItemRepo) LockProducts(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT id FROM warehouse_items WHERE product_id = ANY($1) ORDER BY product_id FOR UPDATE`, productIDs)
	if err != nil {
		return fmt.Errorf("lock warehouse items: %w", err)
	}
	// Solo interesa el bloqueo: CollectRows consume el cursor y cierra rows.
	if _, err := pgx.CollectRows(rows, pgx.RowTo[int64]); err != nil {
		return fmt.Errorf("lock warehouse items: %w", err)
	}
	return nil
}

// Update guarda cantidad y orden de compra de la entrada.
func (r *WarehouseItemRepo) Update(ctx context.Context, item *entity.WarehouseItem) error {
	if err := checkQuantity(item.Quantity); err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE warehouse_items SET quantity = $2, purchase_order_id = $3, updated_at = $4 WHERE id = $1`,
		item.ID, item.Quantity, item.PurchaseOrderID, item.UpdatedAt,
	)
	if err != nil {
		switch {
		case isCheckViolation(err):
			return &domain.LedgerInconsistencyError{ProductID: item.ProductID, Reason: "la cantidad quedaría negativa"}
		case isOutOfRange(err):
			return quantityOutOfRange()
		}
		return fmt.Errorf("update warehouse item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las entradas con cantidad > 0, más recientes primero.
func (r *WarehouseItemRepo) List(ctx context.Context, f repository.WarehouseItemFilter) ([]*entity.WarehouseItem, int, error) {
	where := `
		WHERE w.quantity > 0
		  AND ($1::bigint = 0 OR w.product_id = $1)
		  AND ($2 = '' OR p.name ILIKE '%' || $2 || '%' OR p.product_code ILIKE '%' || $2 || '%')`

	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM warehouse_items w JOIN products p ON p.id = w.product_id`+where,
		f.ProductID, f.Search,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count warehouse items: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT w.id, w.product_id, p.product_code, p.name, w.quantity, w.purchase_order_id, w.added_at, w.updated_at
		FROM warehouse_items w JOIN products p ON p.id = w.product_id`+where+`
		ORDER BY w.added_at DESC, w.id DESC LIMIT $3 OFFSET $4`,
		f.ProductID, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list warehouse items: %w", err)
	}
	defer rows.Close()

	var list []*entity.WarehouseItem
	for rows.Next() {
		var it entity.WarehouseItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductCode, &it.ProductName, &it.Quantity,
			&it.PurchaseOrderID, &it.AddedAt, &it.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan warehouse item: %w", err)
		}
		list = append(list, &it)
	}
	return list, total, rows.Err()
}
