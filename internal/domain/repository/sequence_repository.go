package repository

import "context"

// SequenceRepository entrega números consecutivos por tipo de documento.
// Next debe ejecutarse en la misma transacción que crea la fila numerada.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
