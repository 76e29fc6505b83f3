// Package sales implementa las órdenes de venta y el débito de stock asociado.
package sales

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/validation"
)

// UseCase casos de uso de órdenes de venta.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	orders   repository.SalesOrderRepository
	pdf      PDFGenerator
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	orders repository.SalesOrderRepository,
	pdf PDFGenerator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		ledger:   ledger,
		orders:   orders,
		pdf:      pdf,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
}

// Create crea la orden con sus ítems y debita el libro de almacén en una sola transacción.
//
// Los ítems se procesan en el orden recibido: cada uno vuelve a leer el stock derivado,
// de modo que un ítem anterior puede agotar el stock de uno posterior del mismo producto.
// Cualquier error (stock insuficiente, producto inexistente, inconsistencia del libro)
// revierte la orden completa.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	lockIDs := distinctProductIDs(in.Items)

	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		// Bloqueo previo en orden ascendente de producto para evitar deadlocks entre ventas concurrentes.
		if err := r.WarehouseItems.LockProducts(ctx, lockIDs); err != nil {
			return err
		}
		n, err := r.Sequences.Next(ctx, entity.SequenceSalesOrder)
		if err != nil {
			return err
		}
		now := uc.now()
		shell := &entity.SalesOrder{
			Number:       entity.FormatSalesOrderNumber(n),
			CustomerName: strings.TrimSpace(in.CustomerName),
			OrderDate:    now,
			CreatedBy:    userID,
			CreatedAt:    now,
		}
		if err := r.SalesOrders.Create(ctx, shell); err != nil {
			return err
		}
		for _, req := range in.Items {
			if err := uc.applyItem(ctx, r, shell.ID, userID, req); err != nil {
				return err
			}
		}
		order, err = r.SalesOrders.GetByID(ctx, shell.ID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		var inconsistency *domain.LedgerInconsistencyError
		if errors.As(err, &inconsistency) {
			uc.log.Error().Err(err).Int64("product_id", inconsistency.ProductID).Msg("venta abortada por inconsistencia del libro de almacén")
		}
		return nil, err
	}
	uc.log.Info().
		Str("so_number", order.Number).
		Int("items", len(order.Items)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("orden de venta creada")
	return toResponse(order), nil
}

// applyItem valida stock, persiste el ítem con el precio actual y debita el libro.
func (uc *UseCase) applyItem(ctx context.Context, r inventory.Repos, orderID int64, userID string, req dto.SalesOrderItemRequest) error {
	product, err := r.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	available, err := r.Products.Stock(ctx, product.ID)
	if err != nil {
		return err
	}
	if req.Quantity > available {
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   available,
			Requested:   req.Quantity,
		}
	}
	item := &entity.SalesOrderItem{
		SalesOrderID: orderID,
		ProductID:    product.ID,
		Quantity:     req.Quantity,
		Price:        product.Price,
	}
	if err := r.SalesOrders.CreateItem(ctx, item); err != nil {
		return err
	}
	_, err = uc.ledger.Debit(ctx, r, inventory.DebitInput{
		ProductID:    product.ID,
		Quantity:     req.Quantity,
		SalesOrderID: orderID,
		UserID:       userID,
	})
	return err
}

// GetByID obtiene una orden con sus ítems y el total recalculado.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.SalesOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(order), nil
}

// List lista órdenes filtrando por nombre de cliente.
func (uc *UseCase) List(ctx context.Context, customerName, ordering string, page dto.PageRequest) (*dto.SalesOrderListResponse, error) {
	page.DefaultPage()
	ordering, err := dto.NormalizeOrdering(ordering, "-order_date", "order_date", "total_amount")
	if err != nil {
		return nil, err
	}
	list, total, err := uc.orders.List(ctx, repository.SalesOrderFilter{
		CustomerName: strings.TrimSpace(customerName),
		Ordering:     ordering,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toResponse(o))
	}
	return &dto.SalesOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func distinctProductIDs(items []dto.SalesOrderItemRequest) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func toResponse(o *entity.SalesOrder) *dto.SalesOrderResponse {
	items := make([]dto.SalesOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.SalesOrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal(),
		})
	}
	return &dto.SalesOrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate,
		TotalAmount:  o.TotalAmount,
		Items:        items,
	}
}
