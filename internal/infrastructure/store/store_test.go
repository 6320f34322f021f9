package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/store"
)

// fakePersister guarda en memoria y puede forzar un fallo de escritura.
type fakePersister struct {
	mu      sync.Mutex
	saved   *entity.Snapshot
	saves   int
	failErr error
}

func (f *fakePersister) Load(ctx context.Context) (*entity.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		return nil, nil
	}
	s := f.saved.Clone()
	return &s, nil
}

func (f *fakePersister) Save(ctx context.Context, s entity.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	c := s.Clone()
	f.saved = &c
	f.saves++
	return nil
}

func addDepartment(id string) func(*entity.Snapshot) error {
	return func(s *entity.Snapshot) error {
		s.Departments = append(s.Departments, entity.Department{ID: id, Name: id})
		return nil
	}
}

func TestStore_RunAplicaYGuarda(t *testing.T) {
	p := &fakePersister{}
	m := metrics.New()
	st := store.New(p, nil, m)

	after, err := st.Run(context.Background(), addDepartment("d1"))

	require.NoError(t, err)
	require.Len(t, after.Departments, 1)
	assert.Len(t, st.Snapshot().Departments, 1)
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutations.WithLabelValues("ok")))
}

func TestStore_RunConErrorNoCambiaNada(t *testing.T) {
	p := &fakePersister{}
	st := store.New(p, nil, nil)
	_, err := st.Run(context.Background(), addDepartment("d1"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = st.Run(context.Background(), func(s *entity.Snapshot) error {
		s.Departments = append(s.Departments, entity.Department{ID: "d2"})
		s.Departments[0].Name = "cambiado"
		return boom
	})

	assert.ErrorIs(t, err, boom)
	snap := st.Snapshot()
	require.Len(t, snap.Departments, 1)
	assert.Equal(t, "d1", snap.Departments[0].Name)
	assert.Equal(t, 1, p.saves)
}

func TestStore_FalloDeGuardadoNoSustituyeElEstado(t *testing.T) {
	p := &fakePersister{failErr: errors.New("disco lleno")}
	m := metrics.New()
	st := store.New(p, nil, m)

	_, err := st.Run(context.Background(), addDepartment("d1"))

	require.Error(t, err)
	assert.Empty(t, st.Snapshot().Departments)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutations.WithLabelValues("flush_error")))
}

func TestStore_SnapshotEsIndependiente(t *testing.T) {
	st := store.NewMemory(entity.Snapshot{
		Products: []entity.Product{{ID: "p1", CurrentQty: decimal.NewFromInt(5)}},
	})

	snap := st.Snapshot()
	snap.Products[0].CurrentQty = decimal.Zero
	snap.Products = append(snap.Products, entity.Product{ID: "p2"})

	again := st.Snapshot()
	require.Len(t, again.Products, 1)
	assert.True(t, again.Products[0].CurrentQty.Equal(decimal.NewFromInt(5)))
}

func TestStore_LoadHidrataDesdeElPersister(t *testing.T) {
	p := &fakePersister{}
	first := store.New(p, nil, nil)
	_, err := first.Run(context.Background(), addDepartment("d1"))
	require.NoError(t, err)

	second := store.New(p, nil, nil)
	require.NoError(t, second.Load(context.Background()))

	assert.Len(t, second.Snapshot().Departments, 1)
}

func TestStore_LoadSinEstadoPrevio(t *testing.T) {
	st := store.New(&fakePersister{}, nil, nil)

	require.NoError(t, st.Load(context.Background()))

	snap := st.Snapshot()
	assert.NotNil(t, snap.Products)
	assert.True(t, snap.IsEmpty())
}

func TestStore_MutacionesConcurrentesSeSerializan(t *testing.T) {
	st := store.NewMemory(entity.Snapshot{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Run(context.Background(), addDepartment("d"))
			_ = st.Snapshot()
		}()
	}
	wg.Wait()

	assert.Len(t, st.Snapshot().Departments, 50)
}
