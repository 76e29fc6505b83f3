package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isForeignKeyViolation: la fila referenciada no existe (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isCheckViolation: por ejemplo quantity >= 0 en warehouse_items.
func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// isOutOfRange: el valor no cabe en la columna, por ejemplo quantity > 2147483647 en INTEGER (22003).
func isOutOfRange(err error) bool {
	return pgCode(err) == codeNumericOutOfRange
}

// checkQuantity rechaza cantidades que no caben en las columnas INTEGER antes de ir a la base:
// pgx codifica los parámetros int4 en el cliente y ese error no trae código SQLSTATE.
func checkQuantity(q int64) error {
	if q > entity.MaxQuantity {
		return quantityOutOfRange()
	}
	return nil
}

func quantityOutOfRange() error {
	return domain.NewValidationError("quantity", fmt.Sprintf("lte=%d", entity.MaxQuantity))
}

// orderBy traduce "campo" / "-campo" a una cláusula ORDER BY usando solo columnas de la lista blanca.
// El llamador agrega el id como desempate.
func orderBy(ordering string, columns map[string]string, def string) string {
	desc := strings.HasPrefix(ordering, "-")
	col, ok := columns[strings.TrimPrefix(ordering, "-")]
	if !ok {
		return def
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return col + " " + dir
}
