package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/reportfmt"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/store"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app     *fiber.App
	store   *store.Store
	metrics *metrics.Metrics
}

func newAPI(t *testing.T, limiter *apphttp.LoginLimiter) *apiFixture {
	t.Helper()
	st := store.NewMemory(entity.Snapshot{
		Departments: []entity.Department{{ID: "d1", Name: "Lácteos"}},
		Products: []entity.Product{{
			ID: "p1", Name: "Leche", DepartmentID: "d1",
			Price: decimal.NewFromInt(10), CurrentQty: decimal.NewFromInt(3), MinThreshold: decimal.NewFromInt(5),
		}},
	})
	loc := time.UTC
	m := metrics.New()
	analyticsUC := appanalytics.NewAnalyticsUseCase(st, loc)
	authUC := auth.NewAuthUseCase(st, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}).
		WithBcryptCost(bcrypt.MinCost)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DepartmentUC: usecase.NewDepartmentUseCase(st),
		SupplierUC:   usecase.NewSupplierUseCase(st),
		ProductUC:    usecase.NewProductUseCase(st, loc),
		SaleUC:       usecase.NewSaleUseCase(st, loc),
		SupplyUC:     usecase.NewSupplyUseCase(st, loc),
		AuthUC:       authUC,
		AnalyticsUC:  analyticsUC,
		ExportUC:     appanalytics.NewReportExportUseCase(analyticsUC, xlsx.NewReportRenderer(reportfmt.New("es"))),
		DashboardUC:  appanalytics.NewDashboardUseCase(st, loc),
		JWTSecret:    testJWTSecret,
		LoginLimiter: limiter,
		Metrics:      m,
	})
	return &apiFixture{app: app, store: st, metrics: m}
}

func (f *apiFixture) call(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_CajeroRegistraVentaYDescuentaStock(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodPost, "/api/sales", "cashier", fiber.Map{
		"items": []fiber.Map{{"product_id": "p1", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeJSON[dto.SaleResponse](t, resp)
	assert.Equal(t, testUserID, sale.CashierID)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(20)))

	snap := api.store.Snapshot()
	assert.True(t, snap.Products[0].CurrentQty.Equal(decimal.NewFromInt(1)))
}

func TestSales_StockInsuficiente_Retorna409(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodPost, "/api/sales", "cashier", fiber.Map{
		"items": []fiber.Map{{"product_id": "p1", "quantity": 5}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.True(t, api.store.Snapshot().Products[0].CurrentQty.Equal(decimal.NewFromInt(3)), "el stock no cambia")
}

func TestSales_CajeroConsultaVentaPorID(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodPost, "/api/sales", "cashier", fiber.Map{
		"items": []fiber.Map{{"product_id": "p1", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[dto.SaleResponse](t, resp)

	resp = api.call(t, http.MethodGet, "/api/sales/"+created.ID, "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeJSON[dto.SaleResponse](t, resp)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(10)))
}

func TestSales_CajeroNoPuedeListar(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodGet, "/api/sales", "cashier", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodGet, "/api/sales?start_date=2025-13-01", "manager", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeJSON[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_BorradoSoloAdmin(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodDelete, "/api/products/p1", "manager", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodDelete, "/api/products/p1", "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.call(t, http.MethodGet, "/api/products/p1", "cashier", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeJSON[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_CrearConDepartamentoInexistente(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodPost, "/api/products", "manager", fiber.Map{
		"name": "Yogur", "department_id": "nope", "price": "25.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeJSON[dto.ErrorResponse](t, resp).Code)
}

func TestDepartments_CuerpoInvalido(t *testing.T) {
	api := newAPI(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/departments", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "manager"))
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeJSON[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Analítica
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalytics_ReporteYStockBajo(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodGet, "/api/analytics/report?top_n=5", "manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeJSON[dto.AnalyticsReportDTO](t, resp)
	assert.Equal(t, 1, report.Summary.ProductCount)
	require.Len(t, report.LowStock, 1)
	assert.Equal(t, "p1", report.LowStock[0].ProductID)

	resp = api.call(t, http.MethodGet, "/api/analytics/report", "cashier", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnalytics_ExportXLSX(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodGet, "/api/analytics/export.xlsx", "admin", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]), "un xlsx es un zip")
}

func TestAnalytics_ExportPDFSinRenderer_Retorna400(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodGet, "/api/analytics/export.pdf", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeJSON[dto.ErrorResponse](t, resp).Code)
}

func TestDashboard_Summary(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodGet, "/api/dashboard/summary", "manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decodeJSON[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 1, summary.ProductCount)
	assert.Equal(t, 1, summary.LowStockCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroYLogin(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "caja1", "password": "secreto123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decodeJSON[dto.UserResponse](t, resp)
	assert.Equal(t, entity.RoleCashier, user.Role)

	resp = api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "caja1", "password": "secreto123",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": "caja1", "password": "incorrecta",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": "caja1", "password": "secreto123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeJSON[dto.LoginResponse](t, resp)
	id, err := pkgjwt.Parse(testJWTSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "caja1", id.Username)
	assert.Equal(t, entity.RoleCashier, id.Role)
}

func TestAuth_RolPrivilegiadoRequiereAdmin(t *testing.T) {
	api := newAPI(t, nil)
	body := fiber.Map{"username": "jefe", "password": "secreto123", "role": "manager"}

	resp := api.call(t, http.MethodPost, "/api/auth/register", "", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/register", "manager", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/register", "admin", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAuth_LoginLimitadoPorIP(t *testing.T) {
	api := newAPI(t, apphttp.NewLoginLimiter(1, 1))
	body := fiber.Map{"username": "nadie", "password": "secreto123"}

	resp := api.call(t, http.MethodPost, "/api/auth/login", "", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", decodeJSON[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestMetrics_ExponeContadoresHTTP(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.call(t, http.MethodGet, "/api/products", "cashier", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.call(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "almacen_http_requests_total")
}
