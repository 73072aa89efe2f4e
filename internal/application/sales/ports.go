package sales

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Metrics puerto de métricas de ventas. nil desactiva el registro.
type Metrics interface {
	SaleCreated(total decimal.Decimal)
	SaleCancelled()
	SaleRejected(reason string)
}

// ReceiptGenerator genera el comprobante PDF de una venta persistida.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, client *entity.Client, warehouse *entity.Warehouse) ([]byte, error)
}

type noopMetrics struct{}

func (noopMetrics) SaleCreated(decimal.Decimal) {}
func (noopMetrics) SaleCancelled()              {}
func (noopMetrics) SaleRejected(string)         {}
