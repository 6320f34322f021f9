package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// transiciones permitidas de un reabastecimiento.
var supplyTransitions = map[entity.SupplyStatus][]entity.SupplyStatus{
	entity.SupplyPending:  {entity.SupplyReceived, entity.SupplyCompleted, entity.SupplyCancelled},
	entity.SupplyReceived: {entity.SupplyCompleted},
}

// SupplyUseCase registra reabastecimientos y su ciclo de vida.
type SupplyUseCase struct {
	store repository.StateStore
	loc   *time.Location
	now   func() time.Time
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(store repository.StateStore, loc *time.Location) *SupplyUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &SupplyUseCase{store: store, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SupplyUseCase) WithClock(now func() time.Time) *SupplyUseCase {
	uc.now = now
	return uc
}

// Create registra un reabastecimiento en estado pending. El stock no cambia hasta recibirlo.
func (uc *SupplyUseCase) Create(ctx context.Context, approvedBy string, in dto.CreateSupplyRequest) (*dto.SupplyResponse, error) {
	if len(in.Items) == 0 {
		return nil, invalid("el reabastecimiento no tiene líneas")
	}
	date, err := parseDate("supply_date", in.SupplyDate, uc.loc)
	if err != nil {
		return nil, err
	}
	supply := entity.Supply{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		SupplyDate: uc.now(),
		ApprovedBy: approvedBy,
		Status:     entity.SupplyPending,
	}
	if date != nil {
		supply.SupplyDate = *date
	}

	var items []entity.SupplyItem
	snap, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		if s.SupplierIndex(in.SupplierID) < 0 {
			return notFound("proveedor", in.SupplierID)
		}
		items = make([]entity.SupplyItem, 0, len(in.Items))
		for n, line := range in.Items {
			if s.ProductIndex(line.ProductID) < 0 {
				return notFound("producto", line.ProductID)
			}
			if err := requirePositive(fmt.Sprintf("items[%d].quantity", n), line.Quantity); err != nil {
				return err
			}
			if err := requireNonNegative(fmt.Sprintf("items[%d].unit_price", n), line.UnitPrice); err != nil {
				return err
			}
			items = append(items, entity.SupplyItem{
				ID:        uuid.New().String(),
				SupplyID:  supply.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}
		s.Supplies = append(s.Supplies, supply)
		s.SupplyItems = append(s.SupplyItems, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSupplyResponse(supply, items, snap), nil
}

// GetByID obtiene un reabastecimiento con líneas y costo total.
func (uc *SupplyUseCase) GetByID(id string) (*dto.SupplyResponse, error) {
	snap := uc.store.Snapshot()
	i := snap.SupplyIndex(id)
	if i < 0 {
		return nil, notFound("reabastecimiento", id)
	}
	return toSupplyResponse(snap.Supplies[i], snap.ItemsOfSupply(id), snap), nil
}

// List lista los reabastecimientos (más recientes primero), opcionalmente por estado.
func (uc *SupplyUseCase) List(f dto.SupplyFilter) ([]dto.SupplyResponse, error) {
	status := entity.SupplyStatus(f.Status)
	if f.Status != "" && !status.Valid() {
		return nil, invalid("status desconocido: %q", f.Status)
	}
	snap := uc.store.Snapshot()

	supplies := make([]entity.Supply, 0, len(snap.Supplies))
	for _, s := range snap.Supplies {
		if f.Status != "" && s.Status != status {
			continue
		}
		supplies = append(supplies, s)
	}
	sort.SliceStable(supplies, func(i, j int) bool { return supplies[i].SupplyDate.After(supplies[j].SupplyDate) })

	bySupply := make(map[string][]entity.SupplyItem, len(supplies))
	for _, it := range snap.SupplyItems {
		bySupply[it.SupplyID] = append(bySupply[it.SupplyID], it)
	}
	out := make([]dto.SupplyResponse, 0, len(supplies))
	for _, s := range supplies {
		out = append(out, *toSupplyResponse(s, bySupply[s.ID], snap))
	}
	return out, nil
}

// UpdateStatus cambia el estado. Al pasar de pending a received o completed las cantidades
// entran al stock una sola vez; received -> completed ya no las vuelve a sumar.
func (uc *SupplyUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateSupplyStatusRequest) (*dto.SupplyResponse, error) {
	next := entity.SupplyStatus(in.Status)
	if !next.Valid() {
		return nil, invalid("status desconocido: %q", in.Status)
	}

	var updated entity.Supply
	snap, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.SupplyIndex(id)
		if i < 0 {
			return notFound("reabastecimiento", id)
		}
		cur := s.Supplies[i].Status
		if !canTransition(cur, next) {
			return fmt.Errorf("%w: transición %s -> %s no permitida", domain.ErrConflict, cur, next)
		}
		if !cur.StockApplied() && next.StockApplied() {
			for _, it := range s.ItemsOfSupply(id) {
				if pi := s.ProductIndex(it.ProductID); pi >= 0 {
					s.Products[pi].CurrentQty = s.Products[pi].CurrentQty.Add(it.Quantity)
				}
			}
		}
		s.Supplies[i].Status = next
		updated = s.Supplies[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSupplyResponse(updated, snap.ItemsOfSupply(id), snap), nil
}

func canTransition(from, to entity.SupplyStatus) bool {
	for _, s := range supplyTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func toSupplyResponse(supply entity.Supply, items []entity.SupplyItem, snap entity.Snapshot) *dto.SupplyResponse {
	out := &dto.SupplyResponse{
		ID:         supply.ID,
		SupplierID: supply.SupplierID,
		SupplyDate: supply.SupplyDate,
		ApprovedBy: supply.ApprovedBy,
		Status:     string(supply.Status),
		Items:      make([]dto.SupplyItemResponse, 0, len(items)),
		TotalCost:  decimal.Zero,
	}
	if i := snap.SupplierIndex(supply.SupplierID); i >= 0 {
		out.SupplierName = snap.Suppliers[i].Name
	}
	for _, it := range items {
		name := ""
		if i := snap.ProductIndex(it.ProductID); i >= 0 {
			name = snap.Products[i].Name
		}
		line := it.LineTotal()
		out.Items = append(out.Items, dto.SupplyItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   line.Round(2),
		})
		out.TotalCost = out.TotalCost.Add(line)
	}
	out.TotalCost = out.TotalCost.Round(2)
	return out
}
