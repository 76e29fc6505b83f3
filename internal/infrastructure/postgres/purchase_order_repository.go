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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderSelect = `
	SELECT po.id, po.po_number, po.product_id, p.name, po.supplier, po.quantity, po.unit_price,
	       po.status, po.order_date, po.received_at, COALESCE(po.created_by::text, ''), po.created_at, po.updated_at
	FROM purchase_orders po
	JOIN products p ON p.id = po.product_id`

var purchaseOrderOrderColumns = map[string]string{
	"order_date": "po.order_date",
	"supplier":   "po.supplier",
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	if err := row.Scan(&po.ID, &po.Number, &po.ProductID, &po.ProductName, &po.Supplier, &po.Quantity,
		&po.UnitPrice, &po.Status, &po.OrderDate, &po.ReceivedAt, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return nil, err
	}
	return &po, nil
}

// Create inserta la orden y asigna su ID.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if err := checkQuantity(po.Quantity); err != nil {
		return err
	}
	query := `
		INSERT INTO purchase_orders (po_number, product_id, supplier, quantity, unit_price, status, order_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		po.Number, po.ProductID, po.Supplier, po.Quantity, po.UnitPrice, po.Status, po.OrderDate,
		nullableUUID(po.CreatedBy), po.CreatedAt, po.UpdatedAt,
	).Scan(&po.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		case isOutOfRange(err):
			return quantityOutOfRange()
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden. Devuelve (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, purchaseOrderSelect+` WHERE po.id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando su fila hasta el fin de la transacción.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, purchaseOrderSelect+` WHERE po.id = $1 FOR UPDATE OF po`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query string, id int64) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// Update persiste proveedor, cantidad, precio, estado y fecha de recepción.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	if err := checkQuantity(po.Quantity); err != nil {
		return err
	}
	query := `
		UPDATE purchase_orders
		SET supplier = $2, quantity = $3, unit_price = $4, status = $5, received_at = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		po.ID, po.Supplier, po.Quantity, po.UnitPrice, po.Status, po.ReceivedAt, po.UpdatedAt,
	)
	if err != nil {
		if isOutOfRange(err) {
			return quantityOutOfRange()
		}
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes filtrando por estado exacto y nombre de producto (parcial, sin mayúsculas).
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	where := ` WHERE ($1 = '' OR po.status = $1) AND ($2 = '' OR p.name ILIKE '%' || $2 || '%')`

	var total int
	countQuery := `SELECT COUNT(*) FROM purchase_orders po JOIN products p ON p.id = po.product_id` + where
	if err := r.q.QueryRow(ctx, countQuery, f.Status, f.ProductName).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}

	order := orderBy(f.Ordering, purchaseOrderOrderColumns, "po.order_date DESC")
	rows, err := r.q.Query(ctx, purchaseOrderSelect+where+` ORDER BY `+order+`, po.id LIMIT $3 OFFSET $4`,
		f.Status, f.ProductName, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, total, rows.Err()
}

// Delete elimina la orden. warehouse_items.purchase_order_id queda en NULL por el esquema.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
