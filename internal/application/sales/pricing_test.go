package sales_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	assert.True(t, sales.LineTotal(d("12.50"), 3).Equal(d("37.50")))
	assert.True(t, sales.LineTotal(d("0.333"), 3).Equal(d("1.00")))
	assert.True(t, sales.LineTotal(d("0"), 5).IsZero())
}

func TestTax_RedondeaACentavos(t *testing.T) {
	assert.True(t, sales.Tax(d("37.50"), taxRate).Equal(d("6.00")))
	assert.True(t, sales.Tax(d("10.03"), taxRate).Equal(d("1.60")), "1.6048 redondea a 1.60")
	assert.True(t, sales.Tax(d("10.05"), taxRate).Equal(d("1.61")), "1.608 redondea a 1.61")
	assert.True(t, sales.Tax(d("100"), decimal.Zero).IsZero())
}

func TestPriceSale_TotalesYOrden(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "Ibuprofeno", "6.20", true)
	b := f.addProduct(t, "Suero oral", "7.40", true)

	priced, err := f.pricing.PriceSale(f.ctx, []sales.LineRequest{
		{ProductID: b, Quantity: 2},
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, priced.Lines, 3)
	assert.Equal(t, b, priced.Lines[0].ProductID, "las líneas conservan el orden pedido")
	assert.Equal(t, "Suero oral", priced.Lines[0].ProductName)
	assert.True(t, priced.Lines[0].TotalPrice.Equal(d("14.80")))
	assert.True(t, priced.Subtotal.Equal(d("28.40")))
	assert.True(t, priced.Tax.Equal(d("4.54")))
	assert.True(t, priced.Total.Equal(d("32.94")))
	assert.True(t, priced.Total.Equal(priced.Subtotal.Add(priced.Tax)))
	assert.True(t, f.pricing.TaxRate().Equal(taxRate))
}

func TestPriceSale_ReportaTodosLosFaltantes(t *testing.T) {
	f := newFixture(t)
	ok := f.addProduct(t, "Activo", "1.00", true)
	off := f.addProduct(t, "Inactivo", "1.00", false)
	ghost := uuid.NewString()

	_, err := f.pricing.PriceSale(f.ctx, []sales.LineRequest{
		{ProductID: ok, Quantity: 1},
		{ProductID: ghost, Quantity: 1},
		{ProductID: off, Quantity: 1},
		{ProductID: ghost, Quantity: 2},
	})
	var nf *domain.ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ElementsMatch(t, []string{ghost, off}, nf.IDs)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPriceSale_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.pricing.PriceSale(f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p := f.addProduct(t, "X", "1.00", true)
	_, err = f.pricing.PriceSale(f.ctx, []sales.LineRequest{{ProductID: p, Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
