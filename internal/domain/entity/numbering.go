package entity

import "fmt"

// Nombres de las secuencias por tipo de documento.
const (
	SequenceProduct       = "product"
	SequencePurchaseOrder = "purchase_order"
	SequenceSalesOrder    = "sales_order"
)

// FormatProductCode devuelve PROD-NNN.
func FormatProductCode(n int64) string { return fmt.Sprintf("PROD-%03d", n) }

// FormatPurchaseOrderNumber devuelve PO-NNNN.
func FormatPurchaseOrderNumber(n int64) string { return fmt.Sprintf("PO-%04d", n) }

// FormatSalesOrderNumber devuelve SO-NNNN.
func FormatSalesOrderNumber(n int64) string { return fmt.Sprintf("SO-%04d", n) }
