package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DepartmentUC *usecase.DepartmentUseCase
	SupplierUC   *usecase.SupplierUseCase
	ProductUC    *usecase.ProductUseCase
	SaleUC       *usecase.SaleUseCase
	SupplyUC     *usecase.SupplyUseCase
	AuthUC       *auth.AuthUseCase
	AnalyticsUC  *appanalytics.AnalyticsUseCase
	ExportUC     *appanalytics.ReportExportUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	JWTSecret    string
	LoginLimiter *LoginLimiter    // nil = sin límite
	Metrics      *metrics.Metrics // nil = sin /metrics
	Logger       *logger.Logger
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", deps.LoginLimiter.Handler(), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(RolesManagers...)
	admins := RequireRole(RolesAdmin...)
	everyone := RequireRole(RolesAll...)

	// Departments: lectura para todos, escritura manager+, borrado admin
	departments := protected.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments.Get("/", everyone, departmentHandler.List)
	departments.Get("/:id", everyone, departmentHandler.GetByID)
	departments.Post("/", managers, departmentHandler.Create)
	departments.Put("/:id", managers, departmentHandler.Update)
	departments.Delete("/:id", admins, departmentHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", everyone, supplierHandler.List)
	suppliers.Get("/:id", everyone, supplierHandler.GetByID)
	suppliers.Post("/", managers, supplierHandler.Create)
	suppliers.Put("/:id", managers, supplierHandler.Update)
	suppliers.Delete("/:id", admins, supplierHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", everyone, productHandler.List)
	products.Get("/:id", everyone, productHandler.GetByID)
	products.Post("/", managers, productHandler.Create)
	products.Put("/:id", managers, productHandler.Update)
	products.Delete("/:id", admins, productHandler.Delete)

	// Sales: el cajero registra y ve su comprobante, el manager lista, el admin anula
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", everyone, saleHandler.Create)
	sales.Get("/", managers, saleHandler.List)
	sales.Get("/:id", everyone, saleHandler.GetByID)
	sales.Delete("/:id", admins, saleHandler.Delete)

	// Supplies
	supplies := protected.Group("/supplies", managers)
	supplyHandler := NewSupplyHandler(deps.SupplyUC)
	supplies.Post("/", supplyHandler.Create)
	supplies.Get("/", supplyHandler.List)
	supplies.Get("/:id", supplyHandler.GetByID)
	supplies.Patch("/:id/status", supplyHandler.UpdateStatus)

	// Analytics
	analytics := protected.Group("/analytics", managers)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC, deps.ExportUC)
	analytics.Get("/report", analyticsHandler.GetReport)
	analytics.Get("/low-stock", analyticsHandler.GetLowStock)
	analytics.Get("/summary", analyticsHandler.GetSummary)
	analytics.Get("/export.xlsx", analyticsHandler.ExportXLSX)
	analytics.Get("/export.pdf", analyticsHandler.ExportPDF)

	// Dashboard
	dashboard := protected.Group("/dashboard", managers)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
