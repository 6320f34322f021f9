package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/persistence"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/reportfmt"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/store"
	infraxlsx "github.com/jhoicas/Almacen-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/internal/scheduler"
	"github.com/jhoicas/Almacen-api/internal/seed"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	persister, closePersister, err := persistence.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir persistencia")
	}
	defer closePersister()

	st := store.New(persister, log, m)
	if err := st.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar estado")
	}

	// Dataset de demostración solo sobre un estado vacío
	if cfg.Store.SeedDemo && st.Snapshot().IsEmpty() {
		demo := seed.Demo(cfg.App.Location())
		if _, err := st.Run(ctx, func(s *entity.Snapshot) error {
			users := s.Users
			*s = demo
			s.Users = users
			return nil
		}); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de demostración")
		}
		log.Info().Int("products", len(demo.Products)).Msg("datos de demostración cargados")
	}

	loc := cfg.App.Location()
	authUC := auth.NewAuthUseCase(st, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("usuario administrador inicial")
	}
	if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("usuario administrador creado")
	}

	formatter := reportfmt.New(cfg.App.Locale)
	analyticsUC := appanalytics.NewAnalyticsUseCase(st, loc)
	exportUC := appanalytics.NewReportExportUseCase(analyticsUC,
		infraxlsx.NewReportRenderer(formatter),
		infrapdf.NewReportRenderer(cfg.App.Name, formatter),
	)

	watch := scheduler.NewLowStockWatch(st, cfg.Scheduler, loc, log, m)
	if err := watch.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("iniciar vigilante de stock bajo")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Almacen API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   cfg.App.Name,
			"store":     cfg.Store.Driver,
			"scheduler": watch.Status(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DepartmentUC: usecase.NewDepartmentUseCase(st),
		SupplierUC:   usecase.NewSupplierUseCase(st),
		ProductUC:    usecase.NewProductUseCase(st, loc),
		SaleUC:       usecase.NewSaleUseCase(st, loc),
		SupplyUC:     usecase.NewSupplyUseCase(st, loc),
		AuthUC:       authUC,
		AnalyticsUC:  analyticsUC,
		ExportUC:     exportUC,
		DashboardUC:  appanalytics.NewDashboardUseCase(st, loc),
		JWTSecret:    cfg.JWT.Secret,
		LoginLimiter: httpRouter.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst),
		Metrics:      m,
		Logger:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
