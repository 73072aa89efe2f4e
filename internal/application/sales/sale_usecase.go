package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// SaleUseCase orquesta la venta: precios, cabecera, líneas y salidas de inventario en una sola
// transacción; y la anulación que devuelve el stock.
type SaleUseCase struct {
	txRunner   repository.TxRunner
	pricing    *PriceCalculator
	ledger     *inventory.Ledger
	resolver   *inventory.WarehouseResolver
	saleRepo   repository.SaleRepository
	clientRepo repository.ClientRepository
	metrics    Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewSaleUseCase construye el orquestador de ventas.
func NewSaleUseCase(
	txRunner repository.TxRunner,
	pricing *PriceCalculator,
	ledger *inventory.Ledger,
	resolver *inventory.WarehouseResolver,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	metrics Metrics,
	log zerolog.Logger,
) *SaleUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SaleUseCase{
		txRunner:   txRunner,
		pricing:    pricing,
		ledger:     ledger,
		resolver:   resolver,
		saleRepo:   saleRepo,
		clientRepo: clientRepo,
		metrics:    metrics,
		log:        log,
		now:        time.Now,
	}
}

// CreateSale valida, calcula precios fuera de la transacción y luego, en una sola unidad de trabajo,
// guarda cabecera y líneas y descuenta el stock de cada línea en orden ascendente de product_id.
// Cualquier error deshace todo: no hay ventas parciales.
func (uc *SaleUseCase) CreateSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	sale, err := uc.createSale(ctx, actorID, in)
	if err != nil {
		uc.metrics.SaleRejected(rejectReason(err))
		return nil, err
	}
	uc.metrics.SaleCreated(sale.Total)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("user_id", sale.UserID).
		Str("warehouse_id", sale.WarehouseID).
		Int("lines", len(sale.Items)).
		Str("total", sale.Total.StringFixed(moneyPlaces)).
		Msg("venta registrada")
	return ToSaleResponse(sale), nil
}

func (uc *SaleUseCase) createSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	lines, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.NewValidationError("payment_method", "debe ser Efectivo, Tarjeta Crédito, Tarjeta Débito o Transferencia")
	}

	var clientID *string
	if in.ClientID != nil && *in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(ctx, *in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("cliente %s: %w", *in.ClientID, domain.ErrNotFound)
		}
		id := client.ID
		clientID = &id
	}

	warehouseID, err := uc.resolver.Resolve(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	// Precios del catálogo (solo lectura, fuera de la tx)
	priced, err := uc.pricing.PriceSale(ctx, lines)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ClientID:      clientID,
		UserID:        actorID,
		WarehouseID:   warehouseID,
		Subtotal:      priced.Subtotal,
		Tax:           priced.Tax,
		Total:         priced.Total,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		Status:        entity.SaleStatusActive,
		SaleDate:      now,
		Items:         make([]entity.SaleLineItem, 0, len(priced.Lines)),
	}
	for _, l := range priced.Lines {
		sale.Items = append(sale.Items, entity.SaleLineItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.TotalPrice,
		})
	}
	reason := fmt.Sprintf("Venta #%s", sale.ID)
	ref := &entity.MovementReference{ID: sale.ID, Type: entity.ReferenceTypeSale}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if err := repos.Sales.CreateLineItems(ctx, sale.Items); err != nil {
			return err
		}
		// Orden fijo por product_id para no provocar deadlocks entre ventas concurrentes
		for _, item := range lockOrder(sale.Items) {
			_, err := uc.ledger.Adjust(ctx, repos, inventory.AdjustInput{
				ProductID:   item.ProductID,
				WarehouseID: warehouseID,
				Delta:       -item.Quantity,
				ActorID:     actorID,
				Reason:      reason,
				Reference:   ref,
				MustExist:   true,
			})
			if errors.Is(err, domain.ErrInventoryNotFound) {
				return &domain.InsufficientStockError{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					WarehouseID: warehouseID,
					Available:   0,
					Requested:   item.Quantity,
				}
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelSale bloquea la venta, devuelve el stock de cada línea (Entrada) y la marca como cancelada.
// Si el registro de inventario de una línea ya no existe, la línea se omite con un warning.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID, actorID string) (*dto.CancelSaleResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if saleID == "" {
		return nil, domain.NewValidationError("sale_id", "es obligatorio")
	}

	now := uc.now()
	reason := fmt.Sprintf("Cancelación de venta #%s", saleID)
	ref := &entity.MovementReference{ID: saleID, Type: entity.ReferenceTypeSaleCancel}
	var restored, skipped int

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		restored, skipped = 0, 0
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %s: %w", saleID, domain.ErrSaleNotFound)
		}
		if !sale.Cancellable() {
			return fmt.Errorf("venta %s: %w", saleID, domain.ErrAlreadyCancelled)
		}
		items, err := repos.Sales.GetLineItems(ctx, saleID)
		if err != nil {
			return err
		}
		for _, item := range lockOrder(items) {
			_, err := uc.ledger.Adjust(ctx, repos, inventory.AdjustInput{
				ProductID:   item.ProductID,
				WarehouseID: sale.WarehouseID,
				Delta:       item.Quantity,
				ActorID:     actorID,
				Reason:      reason,
				Reference:   ref,
				MustExist:   true,
			})
			if errors.Is(err, domain.ErrInventoryNotFound) {
				uc.log.Warn().
					Str("sale_id", saleID).
					Str("product_id", item.ProductID).
					Str("warehouse_id", sale.WarehouseID).
					Msg("inventario inexistente al anular venta; se omite la línea")
				skipped++
				continue
			}
			if err != nil {
				return err
			}
			restored++
		}
		return repos.Sales.MarkCancelled(ctx, saleID, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCancelled()
	uc.log.Info().
		Str("sale_id", saleID).
		Str("user_id", actorID).
		Int("restored_lines", restored).
		Int("skipped_lines", skipped).
		Msg("venta anulada")
	return &dto.CancelSaleResponse{
		SaleID:        saleID,
		Status:        string(entity.SaleStatusCancelled),
		CancelledAt:   now,
		RestoredLines: restored,
		SkippedLines:  skipped,
	}, nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.loadSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// ListSales lista ventas (sin líneas), más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "debe ser active o cancelled")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.NewValidationError("date_from", "no puede ser posterior a date_to")
	}
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func (uc *SaleUseCase) loadSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("venta %s: %w", id, domain.ErrSaleNotFound)
	}
	items, err := uc.saleRepo.GetLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

// validateItems rechaza listas vacías, productos vacíos y cantidades ausentes o no positivas.
func validateItems(items []dto.SaleItemRequest) ([]LineRequest, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "la venta debe tener al menos un producto")
	}
	lines := make([]LineRequest, 0, len(items))
	for i, it := range items {
		if it.ProductID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "es obligatorio")
		}
		if it.Quantity == nil {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "es obligatorio")
		}
		if *it.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		lines = append(lines, LineRequest{ProductID: it.ProductID, Quantity: *it.Quantity})
	}
	return lines, nil
}

// lockOrder copia de las líneas ordenada de forma estable por product_id.
func lockOrder(items []entity.SaleLineItem) []entity.SaleLineItem {
	ordered := make([]entity.SaleLineItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ProductID < ordered[j].ProductID
	})
	return ordered
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrTransient):
		return "transient"
	}
	return "internal"
}

// ToSaleResponse convierte una venta (con o sin líneas) a su DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	out := &dto.SaleResponse{
		ID:            s.ID,
		ClientID:      s.ClientID,
		UserID:        s.UserID,
		WarehouseID:   s.WarehouseID,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		Status:        string(s.Status),
		SaleDate:      s.SaleDate,
		CancelledAt:   s.CancelledAt,
		CancelledBy:   s.CancelledBy,
	}
	if len(s.Items) > 0 {
		out.Items = make([]dto.SaleLineItemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			out.Items = append(out.Items, dto.SaleLineItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				TotalPrice:  it.TotalPrice,
			})
		}
	}
	return out
}
