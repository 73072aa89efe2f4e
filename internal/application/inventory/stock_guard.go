package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// StockRequest cantidad pedida de un producto.
type StockRequest struct {
	ProductID string
	Quantity  int
}

// StockGuard chequeo optimista previo a la venta: lee sin bloquear y nunca es autoritativo.
// La verificación final la hace Ledger.Adjust bajo bloqueo de fila.
type StockGuard struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	resolver      *WarehouseResolver
}

// NewStockGuard construye el guard.
func NewStockGuard(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	resolver *WarehouseResolver,
) *StockGuard {
	return &StockGuard{inventoryRepo: inventoryRepo, productRepo: productRepo, resolver: resolver}
}

// CheckStock devuelve nil si todas las líneas caben en el stock actual, o un *domain.StockCheckError
// con TODAS las líneas faltantes. Las líneas repetidas de un mismo producto se suman.
func (g *StockGuard) CheckStock(ctx context.Context, items []StockRequest, warehouseID string) error {
	if len(items) == 0 {
		return domain.NewValidationError("items", "la venta debe tener al menos un producto")
	}
	requested := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			return domain.NewValidationError("product_id", "es obligatorio")
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if _, seen := requested[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
	}

	whID, err := g.resolver.Resolve(ctx, warehouseID)
	if err != nil {
		return err
	}
	records, err := g.inventoryRepo.GetMany(ctx, whID, order)
	if err != nil {
		return err
	}

	var shortages []domain.StockShortage
	for _, pid := range order {
		rec, ok := records[pid]
		switch {
		case !ok || rec == nil:
			shortages = append(shortages, domain.StockShortage{ProductID: pid, Requested: requested[pid], Missing: true})
		case rec.Quantity < requested[pid]:
			shortages = append(shortages, domain.StockShortage{
				ProductID:   pid,
				ProductName: rec.ProductName,
				Available:   rec.Quantity,
				Requested:   requested[pid],
			})
		}
	}
	if len(shortages) == 0 {
		return nil
	}
	g.attachNames(ctx, shortages)
	return &domain.StockCheckError{WarehouseID: whID, Shortages: shortages}
}

// attachNames completa nombres faltantes para el mensaje; un fallo aquí no cambia el veredicto.
func (g *StockGuard) attachNames(ctx context.Context, shortages []domain.StockShortage) {
	ids := make([]string, 0, len(shortages))
	for _, s := range shortages {
		if s.ProductName == "" {
			ids = append(ids, s.ProductID)
		}
	}
	if len(ids) == 0 || g.productRepo == nil {
		return
	}
	products, err := g.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return
	}
	for i := range shortages {
		if p, ok := products[shortages[i].ProductID]; ok && shortages[i].ProductName == "" {
			shortages[i].ProductName = p.Name
		}
	}
}
