// Package purchase implementa las órdenes de compra y su recepción (entrada de stock).
package purchase

import (
	"context"
	"errors"
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

// ReceivedMessage es el cuerpo de respuesta de una recepción exitosa.
const ReceivedMessage = "Order received and stock updated."

// UseCase casos de uso de órdenes de compra.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	orders   repository.PurchaseOrderRepository
	products repository.ProductRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	orders repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		ledger:   ledger,
		orders:   orders,
		products: products,
		log:      log.With().Str("component", "purchase").Logger(),
		now:      time.Now,
	}
}

// Create crea la orden en PENDING con el siguiente número PO-NNNN.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	if err := validation.Money("unit_price", *in.UnitPrice); err != nil {
		return nil, err
	}
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		n, err := r.Sequences.Next(ctx, entity.SequencePurchaseOrder)
		if err != nil {
			return err
		}
		now := uc.now()
		po = &entity.PurchaseOrder{
			Number:      entity.FormatPurchaseOrderNumber(n),
			ProductID:   product.ID,
			ProductName: product.Name,
			Supplier:    strings.TrimSpace(in.Supplier),
			Quantity:    in.Quantity,
			UnitPrice:   *in.UnitPrice,
			Status:      entity.PurchaseOrderPending,
			OrderDate:   now,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("po_number", po.Number).Int64("product_id", po.ProductID).Int64("quantity", po.Quantity).Msg("orden de compra creada")
	return toResponse(po), nil
}

// Receive pasa la orden a RECEIVED y acredita el libro de almacén en una sola transacción.
// Si la orden ya estaba recibida devuelve domain.ErrAlreadyReceived y no toca el libro.
func (uc *UseCase) Receive(ctx context.Context, userID string, id int64) error {
	var po *entity.PurchaseOrder
	var balance int64
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		po, err = r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if err := po.Receive(uc.now()); err != nil {
			return err
		}
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		item, err := uc.ledger.Credit(ctx, r, inventory.CreditInput{
			ProductID:       po.ProductID,
			Quantity:        po.Quantity,
			PurchaseOrderID: po.ID,
			UserID:          userID,
		})
		if err != nil {
			return err
		}
		balance = item.Quantity
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyReceived) {
			uc.log.Warn().Int64("purchase_order_id", id).Msg("recepción rechazada: orden ya recibida")
		}
		return err
	}
	uc.log.Info().
		Str("po_number", po.Number).
		Int64("product_id", po.ProductID).
		Int64("quantity", po.Quantity).
		Int64("stock", balance).
		Msg("orden de compra recibida")
	return nil
}

// GetByID obtiene una orden de compra.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(po), nil
}

// Update edita proveedor, cantidad o precio unitario de una orden PENDING.
// El estado solo cambia con Receive.
func (uc *UseCase) Update(ctx context.Context, id int64, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	if in.UnitPrice != nil {
		if err := validation.Money("unit_price", *in.UnitPrice); err != nil {
			return nil, err
		}
	}
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		po, err = r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.IsReceived() {
			return domain.ErrAlreadyReceived
		}
		if in.Supplier != nil {
			po.Supplier = strings.TrimSpace(*in.Supplier)
		}
		if in.Quantity != nil {
			po.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			po.UnitPrice = *in.UnitPrice
		}
		po.UpdatedAt = uc.now()
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(po), nil
}

// List lista órdenes filtrando por estado y nombre de producto.
func (uc *UseCase) List(ctx context.Context, status, productName, ordering string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && status != entity.PurchaseOrderPending && status != entity.PurchaseOrderReceived {
		return nil, domain.NewValidationError("status", "oneof=PENDING RECEIVED")
	}
	ordering, err := dto.NormalizeOrdering(ordering, "-order_date", "order_date", "supplier")
	if err != nil {
		return nil, err
	}
	list, total, err := uc.orders.List(ctx, repository.PurchaseOrderFilter{
		Status:      status,
		ProductName: strings.TrimSpace(productName),
		Ordering:    ordering,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toResponse(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina la orden. El stock que acreditó permanece; la referencia del libro queda en NULL.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	return uc.orders.Delete(ctx, id)
}

func toResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	return &dto.PurchaseOrderResponse{
		ID:          po.ID,
		Number:      po.Number,
		ProductID:   po.ProductID,
		ProductName: po.ProductName,
		Supplier:    po.Supplier,
		Quantity:    po.Quantity,
		UnitPrice:   po.UnitPrice,
		Total:       po.Total(),
		Status:      po.Status,
		OrderDate:   po.OrderDate,
		ReceivedAt:  po.ReceivedAt,
	}
}
