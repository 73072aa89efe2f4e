package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	sales         *SaleUseCase
	clientRepo    repository.ClientRepository
	warehouseRepo repository.WarehouseRepository
	generator     ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	sales *SaleUseCase,
	clientRepo repository.ClientRepository,
	warehouseRepo repository.WarehouseRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:         sales,
		clientRepo:    clientRepo,
		warehouseRepo: warehouseRepo,
		generator:     generator,
	}
}

// DownloadReceipt devuelve el PDF y el nombre de archivo sugerido.
// Las ventas canceladas también generan comprobante, marcado como ANULADA.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.sales.loadSale(ctx, saleID)
	if err != nil {
		return nil, "", err
	}

	var client *entity.Client
	if sale.ClientID != nil {
		client, err = uc.clientRepo.GetByID(ctx, *sale.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
		}
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, sale.WarehouseID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener bodega: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, sale, client, warehouse)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%s.pdf", sale.ID), nil
}
