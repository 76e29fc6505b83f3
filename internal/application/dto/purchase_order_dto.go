package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest entrada para crear una orden de compra (queda PENDING).
type CreatePurchaseOrderRequest struct {
	ProductID int64            `json:"product" validate:"required,gt=0"`
	Supplier  string           `json:"supplier" validate:"required,min=1,max=255"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required"`
}

// UpdatePurchaseOrderRequest entrada para editar una orden pendiente. El estado no se acepta.
type UpdatePurchaseOrderRequest struct {
	Supplier  *string          `json:"supplier" validate:"omitempty,min=1,max=255"`
	Quantity  *int64           `json:"quantity" validate:"omitempty,gt=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID          int64           `json:"id"`
	Number      string          `json:"po_number"`
	ProductID   int64           `json:"product"`
	ProductName string          `json:"product_name"`
	Supplier    string          `json:"supplier"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
	ReceivedAt  *time.Time      `json:"received_at,omitempty"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
