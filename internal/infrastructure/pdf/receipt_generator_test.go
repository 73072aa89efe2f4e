package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "$999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$1.234,50", formatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$1.000.000,00", formatMoney(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-$12,00", formatMoney(decimal.NewFromInt(-12)))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "ABCD1234", shortID("abcd1234-0000-0000-0000-000000000000"))
	assert.Equal(t, "plain", shortID("plain"))
}

func TestGenerateReceiptPDF(t *testing.T) {
	sale := &entity.Sale{
		ID:            uuid.NewString(),
		WarehouseID:   uuid.NewString(),
		Subtotal:      decimal.RequireFromString("20.00"),
		Tax:           decimal.RequireFromString("3.20"),
		Total:         decimal.RequireFromString("23.20"),
		PaymentMethod: entity.PaymentCash,
		Status:        entity.SaleStatusCancelled,
		SaleDate:      time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Items: []entity.SaleLineItem{
			{ProductID: "p1", ProductName: "Paracetamol 500mg", Quantity: 2,
				UnitPrice: decimal.RequireFromString("10.00"), TotalPrice: decimal.RequireFromString("20.00")},
		},
	}

	out, err := NewReceiptGenerator("Farmacia Central").GenerateReceiptPDF(context.Background(), sale, nil, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
