package dto

import "time"

// WarehouseItemResponse salida de una entrada del libro de almacén.
type WarehouseItemResponse struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product"`
	ProductCode     string    `json:"product_code"`
	ProductName     string    `json:"product_name"`
	Quantity        int64     `json:"quantity"`
	PurchaseOrderID *int64    `json:"purchase_order,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// WarehouseItemListResponse lista paginada del libro de almacén.
type WarehouseItemListResponse struct {
	Items []WarehouseItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product"`
	Delta           int64     `json:"delta"`
	Cause           string    `json:"cause"`
	PurchaseOrderID *int64    `json:"purchase_order,omitempty"`
	SalesOrderID    *int64    `json:"sales_order,omitempty"`
	BalanceAfter    int64     `json:"balance_after"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
