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
	"github.com/jhoicas/Almacen-api/internal/domain/analytics"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SaleUseCase registra ventas y mantiene las existencias al día.
type SaleUseCase struct {
	store repository.StateStore
	loc   *time.Location
	now   func() time.Time
}

// NewSaleUseCase construye el caso de uso. loc interpreta los filtros por fecha.
func NewSaleUseCase(store repository.StateStore, loc *time.Location) *SaleUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &SaleUseCase{store: store, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// Create registra una venta y descuenta las existencias. Todas las líneas se validan antes de
// tocar el stock: o se aplica la venta completa o nada.
func (uc *SaleUseCase) Create(ctx context.Context, cashierID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, invalid("la venta no tiene líneas")
	}
	sale := entity.Sale{
		ID:        uuid.New().String(),
		CreatedAt: uc.now(),
		CashierID: cashierID,
	}

	var items []entity.SaleItem
	snap, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		items = make([]entity.SaleItem, 0, len(in.Items))
		requested := make(map[string]decimal.Decimal, len(in.Items))
		for n, line := range in.Items {
			i := s.ProductIndex(line.ProductID)
			if i < 0 {
				return notFound("producto", line.ProductID)
			}
			if err := requirePositive(fmt.Sprintf("items[%d].quantity", n), line.Quantity); err != nil {
				return err
			}
			price := s.Products[i].Price
			if line.UnitPrice != nil {
				if err := requireNonNegative(fmt.Sprintf("items[%d].unit_price", n), *line.UnitPrice); err != nil {
					return err
				}
				price = *line.UnitPrice
			}
			requested[line.ProductID] = requested[line.ProductID].Add(line.Quantity)
			items = append(items, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: price,
			})
		}

		for productID, qty := range requested {
			p := &s.Products[s.ProductIndex(productID)]
			if p.CurrentQty.LessThan(qty) {
				return fmt.Errorf("%w: %s (disponible %s, solicitado %s)",
					domain.ErrInsufficientStock, p.Name, p.CurrentQty.String(), qty.String())
			}
		}
		for productID, qty := range requested {
			p := &s.Products[s.ProductIndex(productID)]
			p.CurrentQty = p.CurrentQty.Sub(qty)
		}

		s.Sales = append(s.Sales, sale)
		s.SaleItems = append(s.SaleItems, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, snap), nil
}

// GetByID obtiene una venta con sus líneas y total.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	snap := uc.store.Snapshot()
	i := snap.SaleIndex(id)
	if i < 0 {
		return nil, notFound("venta", id)
	}
	return toSaleResponse(snap.Sales[i], snap.ItemsOfSale(id), snap), nil
}

// List lista las ventas del período (más recientes primero) con paginación.
func (uc *SaleUseCase) List(f dto.SaleFilter) (*dto.SaleListResponse, error) {
	f.DefaultPage()
	from, to, err := f.PeriodRequest.Parse(uc.loc)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	snap := uc.store.Snapshot()
	sales, items := analytics.FilterSalesByPeriod(snap.Sales, snap.SaleItems, from, to)
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].CreatedAt.After(sales[j].CreatedAt) })

	bySale := make(map[string][]entity.SaleItem, len(sales))
	total := decimal.Zero
	for _, it := range items {
		bySale[it.SaleID] = append(bySale[it.SaleID], it)
		total = total.Add(it.LineTotal())
	}

	lo, hi := f.Bounds(len(sales))
	out := make([]dto.SaleResponse, 0, hi-lo)
	for _, s := range sales[lo:hi] {
		out = append(out, *toSaleResponse(s, bySale[s.ID], snap))
	}
	return &dto.SaleListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: len(sales)},
		Total: total.Round(2),
	}, nil
}

// Delete anula una venta y devuelve al stock las cantidades de los productos que aún existen.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	_, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.SaleIndex(id)
		if i < 0 {
			return notFound("venta", id)
		}
		kept := s.SaleItems[:0]
		for _, it := range s.SaleItems {
			if it.SaleID != id {
				kept = append(kept, it)
				continue
			}
			if pi := s.ProductIndex(it.ProductID); pi >= 0 {
				s.Products[pi].CurrentQty = s.Products[pi].CurrentQty.Add(it.Quantity)
			}
		}
		s.SaleItems = kept
		s.Sales = append(s.Sales[:i], s.Sales[i+1:]...)
		return nil
	})
	return err
}

func toSaleResponse(sale entity.Sale, items []entity.SaleItem, snap entity.Snapshot) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:        sale.ID,
		CreatedAt: sale.CreatedAt,
		CashierID: sale.CashierID,
		Items:     make([]dto.SaleItemResponse, 0, len(items)),
		Total:     decimal.Zero,
	}
	for _, it := range items {
		name := ""
		if i := snap.ProductIndex(it.ProductID); i >= 0 {
			name = snap.Products[i].Name
		}
		line := it.LineTotal()
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   line.Round(2),
		})
		out.Total = out.Total.Add(line)
	}
	out.Total = out.Total.Round(2)
	return out
}
