package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0,00",
		"25":          "25,00",
		"1000":        "1.000,00",
		"1234567.5":   "1.234.567,50",
		"99999999.99": "99.999.999,99",
		"-1500":       "-1.500,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateSalesOrderPDF(t *testing.T) {
	order := &entity.SalesOrder{
		ID:           1,
		Number:       "SO-0001",
		CustomerName: "Ana Pérez",
		OrderDate:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []*entity.SalesOrderItem{
			{ProductCode: "PROD-001", ProductName: "Tornillo", Quantity: 4, Price: decimal.RequireFromString("2.50")},
			{ProductCode: "PROD-002", ProductName: "Martillo", Quantity: 1, Price: decimal.RequireFromString("20.00")},
		},
	}
	order.ComputeTotal()

	doc, err := NewMarotoPDFGenerator("almacen-api").GenerateSalesOrderPDF(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
