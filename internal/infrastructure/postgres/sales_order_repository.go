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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo órdenes de venta e ítems sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// total_amount se deriva de los ítems persistidos; no existe como columna.
const salesOrderSelect = `
	SELECT so.id, so.so_number, so.customer_name, so.order_date, COALESCE(so.created_by::text, ''), so.created_at,
	       COALESCE(t.total, 0) AS total_amount
	FROM sales_orders so
	LEFT JOIN (
		SELECT sales_order_id, SUM(quantity * price) AS total FROM sales_order_items GROUP BY sales_order_id
	) t ON t.sales_order_id = so.id`

var salesOrderOrderColumns = map[string]string{
	"order_date":   "so.order_date",
	"total_amount": "total_amount",
}

func scanSalesOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	if err := row.Scan(&o.ID, &o.Number, &o.CustomerName, &o.OrderDate, &o.CreatedBy, &o.CreatedAt, &o.TotalAmount); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la cabecera de la orden y asigna su ID.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales_orders (so_number, customer_name, order_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		o.Number, o.CustomerName, o.OrderDate, nullableUUID(o.CreatedBy), o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	return nil
}

// CreateItem inserta un ítem con el precio ya capturado.
func (r *SalesOrderRepo) CreateItem(ctx context.Context, it *entity.SalesOrderItem) error {
	if err := checkQuantity(it.Quantity); err != nil {
		return err
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales_order_items (sales_order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		it.SalesOrderID, it.ProductID, it.Quantity, it.Price,
	).Scan(&it.ID)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		case isOutOfRange(err):
			return quantityOutOfRange()
		}
		return fmt.Errorf("insert sales order item: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus ítems. Devuelve (nil, nil) si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id int64) (*entity.SalesOrder, error) {
	o, err := scanSalesOrder(r.q.QueryRow(ctx, salesOrderSelect+` WHERE so.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.SalesOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List lista órdenes con sus ítems filtrando por cliente (parcial, sin mayúsculas).
func (r *SalesOrderRepo) List(ctx context.Context, f repository.SalesOrderFilter) ([]*entity.SalesOrder, int, error) {
	where := ` WHERE ($1 = '' OR so.customer_name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales_orders so`+where, f.CustomerName).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales orders: %w", err)
	}

	order := orderBy(f.Ordering, salesOrderOrderColumns, "so.order_date DESC")
	rows, err := r.q.Query(ctx, salesOrderSelect+where+` ORDER BY `+order+`, so.id LIMIT $2 OFFSET $3`,
		f.CustomerName, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales orders: %w", err)
	}
	var list []*entity.SalesOrder
	for rows.Next() {
		o, err := scanSalesOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *SalesOrderRepo) loadItems(ctx context.Context, orders []*entity.SalesOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.SalesOrder, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []*entity.SalesOrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.sales_order_id, i.product_id, p.product_code, p.name, i.quantity, i.price
		FROM sales_order_items i JOIN products p ON p.id = i.product_id
		WHERE i.sales_order_id = ANY($1)
		ORDER BY i.id`, ids)
	if err != nil {
		return fmt.Errorf("list sales order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SalesOrderItem
		if err := rows.Scan(&it.ID, &it.SalesOrderID, &it.ProductID, &it.ProductCode, &it.ProductName,
			&it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan sales order item: %w", err)
		}
		o := byID[it.SalesOrderID]
		o.Items = append(o.Items, &it)
	}
	return rows.Err()
}
