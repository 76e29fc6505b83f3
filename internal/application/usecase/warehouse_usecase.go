package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// WarehouseUseCase consultas de solo lectura sobre el libro de almacén.
// Las mutaciones pasan exclusivamente por inventory.Ledger.
type WarehouseUseCase struct {
	items     repository.WarehouseItemRepository
	movements repository.StockMovementRepository
	products  repository.ProductRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	items repository.WarehouseItemRepository,
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
) *WarehouseUseCase {
	return &WarehouseUseCase{items: items, movements: movements, products: products}
}

// List devuelve las entradas con cantidad > 0, filtrables por producto o por búsqueda.
func (uc *WarehouseUseCase) List(ctx context.Context, productID int64, search string, page dto.PageRequest) (*dto.WarehouseItemListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.items.List(ctx, repository.WarehouseItemFilter{
		ProductID: productID,
		Search:    strings.TrimSpace(search),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, toWarehouseItemResponse(it))
	}
	return &dto.WarehouseItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListMovements devuelve el historial de movimientos de un producto, más recientes primero.
func (uc *WarehouseUseCase) ListMovements(ctx context.Context, productID int64, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:              m.ID,
			ProductID:       m.ProductID,
			Delta:           m.Delta,
			Cause:           m.Cause,
			PurchaseOrderID: m.PurchaseOrderID,
			SalesOrderID:    m.SalesOrderID,
			BalanceAfter:    m.BalanceAfter,
			CreatedBy:       m.CreatedBy,
			CreatedAt:       m.CreatedAt,
		})
	}
	return out, nil
}

func toWarehouseItemResponse(it *entity.WarehouseItem) dto.WarehouseItemResponse {
	return dto.WarehouseItemResponse{
		ID:              it.ID,
		ProductID:       it.ProductID,
		ProductCode:     it.ProductCode,
		ProductName:     it.ProductName,
		Quantity:        it.Quantity,
		PurchaseOrderID: it.PurchaseOrderID,
		AddedAt:         it.AddedAt,
	}
}
