package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Ledger es la única puerta de escritura de existencias: cada cambio de cantidad
// queda pareado con exactamente un movimiento con cantidad anterior y nueva.
type Ledger struct {
	inventoryRepo repository.InventoryRepository
	movementRepo  repository.InventoryMovementRepository
	metrics       Metrics
	now           func() time.Time
}

// NewLedger construye el libro. Los repositorios se usan solo para lecturas fuera de transacción.
func NewLedger(
	inventoryRepo repository.InventoryRepository,
	movementRepo repository.InventoryMovementRepository,
	metrics Metrics,
) *Ledger {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Ledger{
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		metrics:       metrics,
		now:           time.Now,
	}
}

// AdjustInput entrada de Adjust. Delta puede ser negativo.
type AdjustInput struct {
	ProductID   string
	WarehouseID string
	Delta       int
	ActorID     string
	Reason      string
	Reference   *entity.MovementReference
	// Override fuerza el tipo Ajuste en lugar de Entrada/Salida.
	Override entity.MovementType
	// MustExist impide crear el registro cuando no existe, aunque Delta sea positivo.
	MustExist bool
}

// AdjustResult par antes/después del ajuste y el movimiento registrado.
type AdjustResult struct {
	PreviousQuantity int
	NewQuantity      int
	Movement         *entity.InventoryMovement
}

// GetQuantity devuelve la cantidad actual; InventoryNotFoundError si el par nunca tuvo stock.
func (l *Ledger) GetQuantity(ctx context.Context, productID, warehouseID string) (int, error) {
	if productID == "" {
		return 0, domain.NewValidationError("product_id", "es obligatorio")
	}
	if warehouseID == "" {
		return 0, domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	rec, err := l.inventoryRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, &domain.InventoryNotFoundError{ProductID: productID, WarehouseID: warehouseID}
	}
	return rec.Quantity, nil
}

// Adjust aplica delta dentro de la transacción del llamador (repos atados a la tx).
// Bloquea la fila (SELECT FOR UPDATE) antes de leer; rechaza con InsufficientStockError
// si la cantidad quedaría negativa, sin escribir nada.
func (l *Ledger) Adjust(ctx context.Context, repos repository.TxRepos, in AdjustInput) (AdjustResult, error) {
	if err := validateAdjust(in); err != nil {
		return AdjustResult{}, err
	}
	movementType, _ := entity.MovementTypeFor(in.Delta, in.Override)

	// Bloquea la fila de inventario para evitar condiciones de carrera
	rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return AdjustResult{}, err
	}
	now := l.now()
	if rec == nil {
		if in.MustExist || in.Delta < 0 {
			return AdjustResult{}, &domain.InventoryNotFoundError{ProductID: in.ProductID, WarehouseID: in.WarehouseID}
		}
		// Alta perezosa: primer ingreso de stock para el par
		if _, err := repos.Inventory.CreateIfAbsent(ctx, &entity.InventoryRecord{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			UpdatedAt:   now,
		}); err != nil {
			return AdjustResult{}, err
		}
		rec, err = repos.Inventory.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return AdjustResult{}, err
		}
		if rec == nil {
			return AdjustResult{}, fmt.Errorf("inventario %s/%s no visible tras crearlo", in.ProductID, in.WarehouseID)
		}
	}

	previous := rec.Quantity
	next := previous + in.Delta
	if next < 0 {
		return AdjustResult{}, &domain.InsufficientStockError{
			ProductID:   in.ProductID,
			ProductName: rec.ProductName,
			WarehouseID: in.WarehouseID,
			Available:   previous,
			Requested:   -in.Delta,
		}
	}
	if err := repos.Inventory.UpdateQuantity(ctx, in.ProductID, in.WarehouseID, next); err != nil {
		return AdjustResult{}, err
	}

	mov := &entity.InventoryMovement{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		WarehouseID:      in.WarehouseID,
		Type:             movementType,
		Quantity:         abs(in.Delta),
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reference:        in.Reference,
		Reason:           in.Reason,
		UserID:           in.ActorID,
		MovementDate:     now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return AdjustResult{}, err
	}
	l.metrics.MovementRecorded(movementType)
	return AdjustResult{PreviousQuantity: previous, NewQuantity: next, Movement: mov}, nil
}

// ListMovements lista el libro con filtros opcionales, más reciente primero.
func (l *Ledger) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidationError("movement_type", "debe ser Entrada, Salida o Ajuste")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.NewValidationError("date_from", "no puede ser posterior a date_to")
	}
	list, err := l.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// GetMovement obtiene un movimiento por ID.
func (l *Ledger) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := l.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return ToMovementResponse(m), nil
}

func validateAdjust(in AdjustInput) error {
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", "es obligatorio")
	}
	if in.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	if in.ActorID == "" {
		return domain.ErrUnauthorized
	}
	if in.Override != "" && in.Override != entity.MovementTypeAjuste {
		return domain.NewValidationError("movement_type", "solo se permite forzar Ajuste")
	}
	if _, ok := entity.MovementTypeFor(in.Delta, in.Override); !ok {
		return domain.NewValidationError("quantity", "el ajuste no puede ser cero")
	}
	return nil
}

// ToMovementResponse convierte un movimiento a su DTO.
func ToMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	out := &dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		WarehouseID:      m.WarehouseID,
		MovementType:     string(m.Type),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		UserID:           m.UserID,
		MovementDate:     m.MovementDate,
	}
	if m.Reference != nil {
		out.ReferenceID = m.Reference.ID
		out.ReferenceType = m.Reference.Type
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
