package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/store"
)

func TestPersister_LoadSinArchivo(t *testing.T) {
	p := filestore.New(filepath.Join(t.TempDir(), "no-existe.json"))

	snap, err := p.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestPersister_GuardaYRecarga(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.json")
	p := filestore.New(path)

	st := store.New(p, nil, nil)
	_, err := st.Run(context.Background(), func(s *entity.Snapshot) error {
		s.Products = append(s.Products, entity.Product{ID: "p1", Name: "Leche", Price: decimal.RequireFromString("89.90")})
		s.Sales = append(s.Sales, entity.Sale{ID: "s1", CreatedAt: time.Date(2025, 5, 30, 14, 30, 0, 0, time.UTC)})
		return nil
	})
	require.NoError(t, err)

	reloaded := store.New(p, nil, nil)
	require.NoError(t, reloaded.Load(context.Background()))

	snap := reloaded.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.True(t, snap.Products[0].Price.Equal(decimal.RequireFromString("89.90")))
	require.Len(t, snap.Sales, 1)
	assert.True(t, snap.Sales[0].CreatedAt.Equal(time.Date(2025, 5, 30, 14, 30, 0, 0, time.UTC)))
}

func TestPersister_NoDejaTemporales(t *testing.T) {
	dir := t.TempDir()
	p := filestore.New(filepath.Join(dir, "state.json"))

	require.NoError(t, p.Save(context.Background(), entity.Snapshot{}))
	require.NoError(t, p.Save(context.Background(), entity.Snapshot{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestPersister_ArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))

	_, err := filestore.New(path).Load(context.Background())

	assert.Error(t, err)
}
