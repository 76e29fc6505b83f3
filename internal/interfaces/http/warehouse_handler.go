package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// WarehouseHandler expone el libro de almacén en modo lectura.
type WarehouseHandler struct {
	uc  *usecase.WarehouseUseCase
	log zerolog.Logger
}

func NewWarehouseHandler(uc *usecase.WarehouseUseCase, log zerolog.Logger) *WarehouseHandler {
	return &WarehouseHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar entradas del almacén
// @Description  Solo entradas con cantidad mayor que cero.
// @Tags         warehouse
// @Produce      json
// @Param        product  query  int     false  "ID de producto"
// @Param        search   query  string  false  "Nombre o código del producto"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200      {object}  dto.WarehouseItemListResponse
// @Router       /api/warehouse-items [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product", 0))
	out, err := h.uc.List(c.UserContext(), productID, c.Query("search"), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
