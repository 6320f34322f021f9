// seed carga datos iniciales en el store configurado (STORE_DRIVER).
//
// Uso:
//
//	go run ./cmd/seed                              dataset de demostración (solo sobre estado vacío)
//	go run ./cmd/seed catalogo.xlsx                importa departamentos y productos desde Excel
//	go run ./cmd/seed -charset windows-1251 c.csv  importa desde CSV (UTF-8 por defecto)
//
// -force reemplaza el estado con el dataset de demostración aunque ya tenga datos (conserva usuarios).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/persistence"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/store"
	"github.com/jhoicas/Almacen-api/internal/seed"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	charset := flag.String("charset", "", "codificación del CSV: utf-8 | windows-1251")
	force := flag.Bool("force", false, "reemplazar el estado existente con el dataset de demostración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")
	if cfg.Store.Driver == config.StoreDriverMemory {
		fmt.Fprintln(os.Stderr, "STORE_DRIVER=memory no persiste nada; use file, postgres o redis")
		os.Exit(1)
	}

	ctx := context.Background()
	persister, closePersister, err := persistence.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir persistencia: %v\n", err)
		os.Exit(1)
	}
	defer closePersister()

	st := store.New(persister, log, nil)
	if err := st.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Cargar estado: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		err = seedDemo(ctx, st, cfg, *force)
	} else {
		err = importCatalog(ctx, st, flag.Arg(0), *charset)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func seedDemo(ctx context.Context, st *store.Store, cfg *config.Config, force bool) error {
	if !st.Snapshot().IsEmpty() && !force {
		fmt.Println("El estado ya tiene datos; use -force para reemplazarlos")
		return nil
	}
	demo := seed.Demo(cfg.App.Location())
	if _, err := st.Run(ctx, func(s *entity.Snapshot) error {
		users := s.Users
		*s = demo
		s.Users = users
		return nil
	}); err != nil {
		return fmt.Errorf("guardar dataset de demostración: %w", err)
	}
	fmt.Printf("Dataset de demostración cargado: %d departamentos, %d productos, %d ventas, %d reabastecimientos\n",
		len(demo.Departments), len(demo.Products), len(demo.Sales), len(demo.Supplies))
	return nil
}

func importCatalog(ctx context.Context, st *store.Store, path, charset string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	var rows []seed.CatalogRow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = seed.ParseXLSX(f)
	case ".csv":
		rows, err = seed.ParseCSV(f, charset)
	default:
		return fmt.Errorf("extensión no soportada %q (use .xlsx o .csv)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("leer catálogo: %w", err)
	}

	var res seed.ImportResult
	if _, err := st.Run(ctx, func(s *entity.Snapshot) error {
		res = seed.Apply(s, rows)
		return nil
	}); err != nil {
		return fmt.Errorf("guardar catálogo: %w", err)
	}
	printResult(os.Stdout, path, res)
	return nil
}

func printResult(w io.Writer, path string, res seed.ImportResult) {
	fmt.Fprintf(w, "Importado %s: %d productos nuevos, %d actualizados, %d departamentos y %d proveedores nuevos\n",
		path, res.Created, res.Updated, res.Departments, res.Suppliers)
}
