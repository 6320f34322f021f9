// Package filestore persiste el estado de la tienda en un archivo JSON local.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StatePersister = (*Persister)(nil)

// Persister guarda el snapshot completo en path.
type Persister struct {
	path string
}

// New construye el persister; el directorio se crea en el primer guardado.
func New(path string) *Persister {
	return &Persister{path: path}
}

// Path ruta del archivo de estado.
func (p *Persister) Path() string { return p.path }

// Load lee el archivo. Si no existe devuelve (nil, nil).
func (p *Persister) Load(ctx context.Context) (*entity.Snapshot, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", p.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var snap entity.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", p.path, err)
	}
	return &snap, nil
}

// Save escribe en un temporal del mismo directorio y lo renombra sobre el destino,
// así un corte a mitad de escritura nunca deja el archivo truncado.
func (p *Persister) Save(ctx context.Context, s entity.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("codificar estado: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("renombrar a %s: %w", p.path, err)
	}
	return nil
}
