// Package scheduler contiene los trabajos periódicos de la tienda.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jhoicas/Almacen-api/internal/domain/analytics"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// LowStockWatch revisa periódicamente el stock y publica los productos críticos
// en el log y en el gauge almacen_low_stock_products.
type LowStockWatch struct {
	scheduler *gocron.Scheduler
	reader    repository.SnapshotReader
	cfg       config.SchedulerConfig
	log       *logger.Logger
	metrics   *metrics.Metrics

	mu          sync.Mutex
	running     bool
	lastRunAt   time.Time
	lastResults []analytics.LowStockProduct
}

// NewLowStockWatch construye el vigilante. loc es la zona horaria de la expresión cron.
func NewLowStockWatch(reader repository.SnapshotReader, cfg config.SchedulerConfig, loc *time.Location, log *logger.Logger, m *metrics.Metrics) *LowStockWatch {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LowStockWatch{
		scheduler: gocron.NewScheduler(loc),
		reader:    reader,
		cfg:       cfg,
		log:       log.Component("low_stock_watch"),
		metrics:   m,
	}
}

// Start agenda el trabajo y lo detiene cuando ctx se cancela.
func (w *LowStockWatch) Start(ctx context.Context) error {
	if !w.cfg.Enabled {
		w.log.Info().Msg("vigilante de stock bajo desactivado por configuración")
		return nil
	}

	w.log.Info().Str("cron", w.cfg.LowStockCron).Msg("iniciando vigilante de stock bajo")

	_, err := w.scheduler.Cron(w.cfg.LowStockCron).Do(func() {
		w.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("agendar vigilante de stock bajo: %w", err)
	}
	w.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		w.log.Info().Msg("deteniendo vigilante de stock bajo")
		w.scheduler.Stop()
	}()
	return nil
}

// RunOnce ejecuta una revisión. Si ya hay una en curso devuelve nil sin hacer nada.
func (w *LowStockWatch) RunOnce() []analytics.LowStockProduct {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.log.Warn().Msg("revisión de stock bajo ya en ejecución")
		return nil
	}
	w.running = true
	w.mu.Unlock()

	snap := w.reader.Snapshot()
	low := analytics.LowStockProducts(snap.Products, snap.Departments)
	for _, p := range low {
		w.log.Warn().
			Str("product_id", p.ProductID).
			Str("product", p.Name).
			Str("department", p.Department).
			Str("current", p.Current.String()).
			Str("minimum", p.Minimum.String()).
			Str("status", p.Status).
			Msg("producto con stock bajo")
	}

	now := time.Now()
	if w.metrics != nil {
		w.metrics.LowStockProducts.Set(float64(len(low)))
		w.metrics.LowStockLastRun.Set(float64(now.Unix()))
	}
	w.log.Info().Int("low_stock", len(low)).Int("products", len(snap.Products)).Msg("revisión de stock bajo completada")

	w.mu.Lock()
	w.running = false
	w.lastRunAt = now
	w.lastResults = low
	w.mu.Unlock()
	return low
}

// Status devuelve el estado del vigilante.
func (w *LowStockWatch) Status() map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return map[string]any{
		"enabled":     w.cfg.Enabled,
		"cron":        w.cfg.LowStockCron,
		"last_run_at": w.lastRunAt,
		"low_stock":   len(w.lastResults),
	}
}
