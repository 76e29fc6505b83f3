package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderItemRequest línea pedida: producto y cantidad.
type SalesOrderItemRequest struct {
	ProductID int64 `json:"product" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

// CreateSalesOrderRequest entrada para crear una orden de venta con sus ítems.
type CreateSalesOrderRequest struct {
	CustomerName string                  `json:"customer_name" validate:"required,min=1,max=255"`
	Items        []SalesOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SalesOrderItemResponse salida de una línea de venta.
type SalesOrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SalesOrderResponse salida de una orden de venta; total_amount se calcula desde los ítems.
type SalesOrderResponse struct {
	ID           int64                    `json:"id"`
	Number       string                   `json:"so_number"`
	CustomerName string                   `json:"customer_name"`
	OrderDate    time.Time                `json:"order_date"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	Items        []SalesOrderItemResponse `json:"items"`
}

// SalesOrderListResponse lista paginada de órdenes de venta.
type SalesOrderListResponse struct {
	Items []SalesOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
