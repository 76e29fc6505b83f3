package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/validation"
)

func TestValidate_SalesOrderSinItems(t *testing.T) {
	err := validation.Validate(dto.CreateSalesOrderRequest{CustomerName: "Ana"})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["items"])
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidate_ItemAnidadoUsaNombreJSON(t *testing.T) {
	err := validation.Validate(dto.CreateSalesOrderRequest{
		CustomerName: "Ana",
		Items:        []dto.SalesOrderItemRequest{{ProductID: 1, Quantity: 0}},
	})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["items[0].quantity"])
}

func TestValidate_RequestValido(t *testing.T) {
	err := validation.Validate(dto.CreatePurchaseOrderRequest{ProductID: 1, Supplier: "ACME", Quantity: 3})
	assert.NoError(t, err)
}

func TestMoney(t *testing.T) {
	assert.NoError(t, validation.Money("price", decimal.RequireFromString("19.99")))
	assert.NoError(t, validation.Money("price", decimal.Zero))

	err := validation.Money("price", decimal.RequireFromString("-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gte=0")

	err = validation.Money("price", decimal.RequireFromString("1.999"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal_places=2")

	err = validation.Money("unit_price", decimal.RequireFromString("100000000"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
