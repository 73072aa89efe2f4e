package sales

import (
	"context"
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Precisión monetaria: dos decimales.
const moneyPlaces = 2

// LineRequest producto y cantidad solicitados.
type LineRequest struct {
	ProductID string
	Quantity  int
}

// PricedLine línea con el precio del catálogo capturado al calcular.
type PricedLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// PricedSale líneas y totales de una venta.
type PricedSale struct {
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PriceCalculator cálculo puro de precios y totales; solo lee el catálogo.
type PriceCalculator struct {
	productRepo repository.ProductRepository
	taxRate     decimal.Decimal
}

// NewPriceCalculator construye la calculadora con la tasa de impuesto uniforme (fracción, ej. 0.16).
func NewPriceCalculator(productRepo repository.ProductRepository, taxRate decimal.Decimal) *PriceCalculator {
	return &PriceCalculator{productRepo: productRepo, taxRate: taxRate}
}

// TaxRate tasa configurada.
func (c *PriceCalculator) TaxRate() decimal.Decimal {
	return c.taxRate
}

// PriceSale resuelve todos los productos en una sola consulta y calcula las líneas en el orden pedido.
// Falla con *domain.ProductNotFoundError listando TODOS los ids inexistentes o inactivos.
func (c *PriceCalculator) PriceSale(ctx context.Context, items []LineRequest) (*PricedSale, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "la venta debe tener al menos un producto")
	}
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	products, err := c.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range ids {
		if p, ok := products[id]; !ok || p == nil || !p.Active {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.ProductNotFoundError{IDs: missing}
	}

	out := &PricedSale{Lines: make([]PricedLine, 0, len(items))}
	subtotal := decimal.Zero
	for _, it := range items {
		p := products[it.ProductID]
		lineTotal := LineTotal(p.Price, it.Quantity)
		out.Lines = append(out.Lines, PricedLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   p.Price,
			TotalPrice:  lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	out.Subtotal = subtotal
	out.Tax = Tax(subtotal, c.taxRate)
	out.Total = subtotal.Add(out.Tax)
	return out, nil
}

// LineTotal precio unitario × cantidad a dos decimales.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyPlaces)
}

// Tax impuesto del subtotal a dos decimales.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(moneyPlaces)
}
