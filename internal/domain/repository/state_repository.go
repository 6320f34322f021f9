package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SnapshotReader lectura consistente del estado completo de la tienda.
type SnapshotReader interface {
	Snapshot() entity.Snapshot
}

// StateStore define el puerto del contenedor de estado (DIP): lecturas por snapshot y
// mutaciones atómicas. fn recibe una copia de trabajo; si devuelve error no se aplica nada.
type StateStore interface {
	SnapshotReader
	Run(ctx context.Context, fn func(s *entity.Snapshot) error) (entity.Snapshot, error)
}

// StatePersister define dónde se hidrata y se guarda el estado (archivo, PostgreSQL, Redis).
// Load devuelve (nil, nil) cuando todavía no hay estado guardado.
type StatePersister interface {
	Load(ctx context.Context) (*entity.Snapshot, error)
	Save(ctx context.Context, s entity.Snapshot) error
}
