// Package validation aplica las reglas `validate:"..."` de los DTOs con go-playground/validator.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Reportar el nombre JSON del campo en lugar del nombre Go.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Validate valida s y devuelve *domain.ValidationError con el mapa campo -> regla incumplida.
func Validate(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return &domain.ValidationError{Fields: ProcessValidationErrors(verrs)}
}

// ProcessValidationErrors convierte los errores del validador en campo -> tag.
// Para campos anidados (items[0].quantity) se usa la ruta sin el nombre del struct raíz.
func ProcessValidationErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out[field] = fe.Tag()
	}
	return out
}

var maxMoney = decimal.New(1, 8)

// Money valida un importe NUMERIC(10,2): >= 0, máximo 2 decimales y 8 dígitos enteros.
func Money(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return domain.NewValidationError(field, "gte=0")
	case !d.Equal(d.Round(2)):
		return domain.NewValidationError(field, "decimal_places=2")
	case d.GreaterThanOrEqual(maxMoney):
		return domain.NewValidationError(field, "max_digits=10")
	}
	return nil
}
