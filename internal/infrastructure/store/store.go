// Package store implementa el contenedor de estado de la tienda: un repositorio en proceso
// hidratado al arrancar desde un persister y guardado en cada mutación.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var _ repository.StateStore = (*Store)(nil)

// Store guarda el snapshot vigente. Las mutaciones se serializan con writeMu; las lecturas
// solo toman mu el tiempo de clonar.
type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	current entity.Snapshot

	persister repository.StatePersister // nil = solo memoria
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// New construye el store vacío. persister, log y m pueden ser nil.
func New(persister repository.StatePersister, log *logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		current:   entity.Snapshot{}.Clone(),
		persister: persister,
		log:       log.Component("store"),
		metrics:   m,
	}
}

// NewMemory store sin persistencia, con un estado inicial opcional (tests y driver memory).
func NewMemory(initial entity.Snapshot) *Store {
	s := New(nil, nil, nil)
	s.current = initial.Clone()
	return s
}

// Load hidrata el estado desde el persister. Sin estado guardado queda vacío.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("cargar estado: %w", err)
	}
	if snap == nil {
		s.log.Info().Msg("sin estado previo, se inicia vacío")
		return nil
	}
	s.mu.Lock()
	s.current = snap.Clone()
	s.mu.Unlock()

	s.log.Info().
		Int("products", len(snap.Products)).
		Int("sales", len(snap.Sales)).
		Int("supplies", len(snap.Supplies)).
		Int("users", len(snap.Users)).
		Msg("estado cargado")
	return nil
}

// Snapshot devuelve una copia independiente del estado vigente.
func (s *Store) Snapshot() entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Run aplica fn sobre una copia de trabajo. Si fn falla no cambia nada; si no, la copia se guarda
// en el persister y solo si el guardado tiene éxito pasa a ser el estado vigente.
// Devuelve el snapshot posterior a la mutación.
func (s *Store) Run(ctx context.Context, fn func(snap *entity.Snapshot) error) (entity.Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	work := s.Snapshot()
	if err := fn(&work); err != nil {
		s.observe("rejected")
		return entity.Snapshot{}, err
	}

	if err := ctx.Err(); err != nil {
		s.observe("rejected")
		return entity.Snapshot{}, err
	}

	if s.persister != nil {
		start := time.Now()
		err := s.persister.Save(ctx, work)
		if s.metrics != nil {
			s.metrics.StoreFlushDuration.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			s.observe("flush_error")
			s.log.Error().Err(err).Msg("no se pudo guardar el estado")
			return entity.Snapshot{}, fmt.Errorf("guardar estado: %w", err)
		}
	}

	s.mu.Lock()
	s.current = work
	s.mu.Unlock()
	s.observe("ok")

	return work.Clone(), nil
}

func (s *Store) observe(result string) {
	if s.metrics != nil {
		s.metrics.StoreMutations.WithLabelValues(result).Inc()
	}
}
