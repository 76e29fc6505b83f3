package sales

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PDFGenerator genera el documento PDF de una orden de venta.
type PDFGenerator interface {
	GenerateSalesOrderPDF(ctx context.Context, order *entity.SalesOrder) ([]byte, error)
}
