package usecase

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// DepartmentUseCase casos de uso CRUD para departamentos.
type DepartmentUseCase struct {
	store repository.StateStore
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(store repository.StateStore) *DepartmentUseCase {
	return &DepartmentUseCase{store: store}
}

// Create crea un departamento.
func (uc *DepartmentUseCase) Create(ctx context.Context, in dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	d := entity.Department{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		ManagerID:   in.ManagerID,
	}
	if _, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		s.Departments = append(s.Departments, d)
		return nil
	}); err != nil {
		return nil, err
	}
	return toDepartmentResponse(d, 0), nil
}

// GetByID obtiene un departamento con su número de productos.
func (uc *DepartmentUseCase) GetByID(id string) (*dto.DepartmentResponse, error) {
	snap := uc.store.Snapshot()
	i := snap.DepartmentIndex(id)
	if i < 0 {
		return nil, notFound("departamento", id)
	}
	return toDepartmentResponse(snap.Departments[i], productsIn(snap, id)), nil
}

// List lista los departamentos ordenados por nombre.
func (uc *DepartmentUseCase) List() []dto.DepartmentResponse {
	snap := uc.store.Snapshot()
	out := make([]dto.DepartmentResponse, 0, len(snap.Departments))
	for _, d := range snap.Departments {
		out = append(out, *toDepartmentResponse(d, productsIn(snap, d.ID)))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Update reemplaza los datos de un departamento.
func (uc *DepartmentUseCase) Update(ctx context.Context, id string, in dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	var updated entity.Department
	snap, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.DepartmentIndex(id)
		if i < 0 {
			return notFound("departamento", id)
		}
		s.Departments[i].Name = name
		s.Departments[i].Description = in.Description
		s.Departments[i].ManagerID = in.ManagerID
		updated = s.Departments[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(updated, productsIn(snap, id)), nil
}

// Delete elimina un departamento. Sus productos conservan la referencia y los reportes
// los muestran como departamento desconocido.
func (uc *DepartmentUseCase) Delete(ctx context.Context, id string) error {
	_, err := uc.store.Run(ctx, func(s *entity.Snapshot) error {
		i := s.DepartmentIndex(id)
		if i < 0 {
			return notFound("departamento", id)
		}
		s.Departments = append(s.Departments[:i], s.Departments[i+1:]...)
		return nil
	})
	return err
}

func productsIn(snap entity.Snapshot, departmentID string) int {
	n := 0
	for _, p := range snap.Products {
		if p.DepartmentID == departmentID {
			n++
		}
	}
	return n
}

func toDepartmentResponse(d entity.Department, products int) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		ManagerID:    d.ManagerID,
		ProductCount: products,
	}
}
