package usecase

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	store repository.StateStore
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(store repository.StateStore) *SupplierUseCase {
	return &SupplierUseCase{store: store}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	sup := entity.Supplier{
		ID:            uuid.New().String(),
		Name:          name,
		Phone:         in.Phone,
		ContactPerson: in.ContactPerson,
	}
	if _, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		s.Suppliers = append(s.Suppliers, sup)
		return nil
	}); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(id string) (*dto.SupplierResponse, error) {
	snap := uc.store.Snapshot()
	i := snap.SupplierIndex(id)
	if i < 0 {
		return nil, notFound("proveedor", id)
	}
	return toSupplierResponse(snap.Suppliers[i]), nil
}

// List lista los proveedores ordenados por nombre.
func (uc *SupplierUseCase) List() []dto.SupplierResponse {
	snap := uc.store.Snapshot()
	out := make([]dto.SupplierResponse, 0, len(snap.Suppliers))
	for _, s := range snap.Suppliers {
		out = append(out, *toSupplierResponse(s))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Update reemplaza los datos de un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	var updated entity.Supplier
	if _, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.SupplierIndex(id)
		if i < 0 {
			return notFound("proveedor", id)
		}
		s.Suppliers[i].Name = name
		s.Suppliers[i].Phone = in.Phone
		s.Suppliers[i].ContactPerson = in.ContactPerson
		updated = s.Suppliers[i]
		return nil
	}); err != nil {
		return nil, err
	}
	return toSupplierResponse(updated), nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	_, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.SupplierIndex(id)
		if i < 0 {
			return notFound("proveedor", id)
		}
		s.Suppliers = append(s.Suppliers[:i], s.Suppliers[i+1:]...)
		return nil
	})
	return err
}

func toSupplierResponse(s entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		Phone:         s.Phone,
		ContactPerson: s.ContactPerson,
	}
}
