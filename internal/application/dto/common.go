package dto

import (
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto y límites a Limit/Offset.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusResponse respuesta simple de acciones.
type StatusResponse struct {
	Status string `json:"status"`
}

// NormalizeOrdering valida un parámetro ordering ("campo" o "-campo") contra los campos permitidos.
// Vacío devuelve def.
func NormalizeOrdering(value, def string, allowed ...string) (string, error) {
	if value == "" {
		return def, nil
	}
	field := strings.TrimPrefix(value, "-")
	for _, a := range allowed {
		if a == field {
			return value, nil
		}
	}
	return "", domain.NewValidationError("ordering", "oneof="+strings.Join(allowed, " "))
}
