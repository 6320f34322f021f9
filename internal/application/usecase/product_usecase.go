package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Las existencias cambian también con ventas
// y reabastecimientos.
type ProductUseCase struct {
	store repository.StateStore
	loc   *time.Location
}

// NewProductUseCase construye el caso de uso. loc interpreta las fechas de caducidad.
func NewProductUseCase(store repository.StateStore, loc *time.Location) *ProductUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ProductUseCase{store: store, loc: loc}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := requireNonNegative("price", in.Price); err != nil {
		return nil, err
	}
	if err := requireNonNegative("current_quantity", in.CurrentQty); err != nil {
		return nil, err
	}
	if err := requireNonNegative("min_threshold", in.MinThreshold); err != nil {
		return nil, err
	}
	expiry, err := parseDate("expiry_date", in.ExpiryDate, uc.loc)
	if err != nil {
		return nil, err
	}
	p := entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		DepartmentID: strings.TrimSpace(in.DepartmentID),
		SupplierID:   strings.TrimSpace(in.SupplierID),
		Grade:        in.Grade,
		Price:        in.Price,
		CurrentQty:   in.CurrentQty,
		MinThreshold: in.MinThreshold,
		ExpiryDate:   expiry,
		StorageCond:  in.StorageCond,
	}
	snap, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		if err := checkProductRefs(s, p); err != nil {
			return err
		}
		s.Products = append(s.Products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p, snap), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	snap := uc.store.Snapshot()
	i := snap.ProductIndex(id)
	if i < 0 {
		return nil, notFound("producto", id)
	}
	return toProductResponse(snap.Products[i], snap), nil
}

// List lista productos por nombre, con filtro opcional por departamento y stock bajo.
func (uc *ProductUseCase) List(f dto.ProductFilter) *dto.ProductListResponse {
	f.DefaultPage()
	snap := uc.store.Snapshot()

	filtered := make([]entity.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if f.DepartmentID != "" && p.DepartmentID != f.DepartmentID {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		filtered = append(filtered, p)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	from, to := f.Bounds(len(filtered))
	items := make([]dto.ProductResponse, 0, to-from)
	for _, p := range filtered[from:to] {
		items = append(items, *toProductResponse(p, snap))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: len(filtered)},
	}
}

// Update actualiza solo los campos presentes en la petición.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated entity.Product
	snap, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.ProductIndex(id)
		if i < 0 {
			return notFound("producto", id)
		}
		p := s.Products[i]
		if in.Name != nil {
			name, err := requireName(*in.Name)
			if err != nil {
				return err
			}
			p.Name = name
		}
		if in.DepartmentID != nil {
			p.DepartmentID = strings.TrimSpace(*in.DepartmentID)
		}
		if in.SupplierID != nil {
			p.SupplierID = strings.TrimSpace(*in.SupplierID)
		}
		if in.Grade != nil {
			p.Grade = *in.Grade
		}
		if in.Price != nil {
			if err := requireNonNegative("price", *in.Price); err != nil {
				return err
			}
			p.Price = *in.Price
		}
		if in.CurrentQty != nil {
			if err := requireNonNegative("current_quantity", *in.CurrentQty); err != nil {
				return err
			}
			p.CurrentQty = *in.CurrentQty
		}
		if in.MinThreshold != nil {
			if err := requireNonNegative("min_threshold", *in.MinThreshold); err != nil {
				return err
			}
			p.MinThreshold = *in.MinThreshold
		}
		if in.ExpiryDate != nil {
			expiry, err := parseDate("expiry_date", *in.ExpiryDate, uc.loc)
			if err != nil {
				return err
			}
			p.ExpiryDate = expiry
		}
		if in.StorageCond != nil {
			p.StorageCond = *in.StorageCond
		}
		// Solo se validan las referencias que cambian: un departamento borrado no bloquea
		// la edición del resto de campos.
		changed := entity.Product{}
		if in.DepartmentID != nil {
			changed.DepartmentID = p.DepartmentID
		}
		if in.SupplierID != nil {
			changed.SupplierID = p.SupplierID
		}
		if err := checkProductRefs(s, changed); err != nil {
			return err
		}
		s.Products[i] = p
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated, snap), nil
}

// Delete elimina un producto. Las ventas históricas conservan sus líneas; los reportes
// las omiten de los totales por departamento.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	_, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.ProductIndex(id)
		if i < 0 {
			return notFound("producto", id)
		}
		s.Products = append(s.Products[:i], s.Products[i+1:]...)
		return nil
	})
	return err
}

func checkProductRefs(s *entity.Snapshot, p entity.Product) error {
	if p.DepartmentID != "" && s.DepartmentIndex(p.DepartmentID) < 0 {
		return invalid("department_id %s no existe", p.DepartmentID)
	}
	if p.SupplierID != "" && s.SupplierIndex(p.SupplierID) < 0 {
		return invalid("supplier_id %s no existe", p.SupplierID)
	}
	return nil
}

func toProductResponse(p entity.Product, snap entity.Snapshot) *dto.ProductResponse {
	dept := ""
	if i := snap.DepartmentIndex(p.DepartmentID); i >= 0 {
		dept = snap.Departments[i].Name
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		DepartmentID:   p.DepartmentID,
		DepartmentName: dept,
		SupplierID:     p.SupplierID,
		Grade:          p.Grade,
		Price:          p.Price,
		CurrentQty:     p.CurrentQty,
		MinThreshold:   p.MinThreshold,
		LowStock:       p.IsLowStock(),
		ExpiryDate:     p.ExpiryDate,
		StorageCond:    p.StorageCond,
	}
}
