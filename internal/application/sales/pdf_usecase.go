package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// RenderPDF genera el documento PDF de la orden. Devuelve los bytes y el nombre de archivo.
func (uc *UseCase) RenderPDF(ctx context.Context, id int64) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	doc, err := uc.pdf.GenerateSalesOrderPDF(ctx, order)
	if err != nil {
		return nil, "", err
	}
	return doc, order.Number + ".pdf", nil
}
