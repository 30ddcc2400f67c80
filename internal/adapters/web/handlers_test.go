package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/adapters/web"
	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
	"recipe-costing/internal/store/file"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := file.Load("../../store/file/testdata/catalog.yaml")
	require.NoError(t, err)
	return web.NewHandler(app.NewAppService(store, core.DefaultCostingPolicy), "https://kitchen.example", 4096)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealthAndRequestID(t *testing.T) {
	h := newServer(t)

	rec, body := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "not valid!")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not valid!", rec.Header().Get("X-Request-ID"))
}

func TestRecipeCost(t *testing.T) {
	h := newServer(t)

	rec, body := do(t, h, http.MethodGet, "/api/teams/1/recipes/10/cost", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cost := body["cost"].(map[string]any)
	assert.Equal(t, 133.0, cost["unit_cost_minor"])
	assert.Equal(t, 1325.0, cost["batch_cost_minor"])

	rec, body = do(t, h, http.MethodGet, "/api/teams/1/recipes/99/cost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.NotEmpty(t, body["request_id"])

	rec, body = do(t, h, http.MethodGet, "/api/teams/x/recipes/10/cost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body["code"])
}

func TestSalesPlanProcurement(t *testing.T) {
	h := newServer(t)

	rec, body := do(t, h, http.MethodGet, "/api/teams/1/sales-plans/20/procurement", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	proc := body["procurement"].(map[string]any)
	assert.Equal(t, 3924.0, proc["total_cost_minor"])

	items := proc["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "鶏もも肉", first["ingredient_name"])
	assert.Equal(t, 4.0, first["required_purchase_units"])
}

func TestCalculateProcurement(t *testing.T) {
	h := newServer(t)

	rec, body := do(t, h, http.MethodPost, "/api/teams/1/procurement",
		`{"items":[{"recipe_id":10,"servings":30}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3924.0, body["total_cost_minor"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, 26400.0, summary["revenue_minor"])

	rec, body = do(t, h, http.MethodPost, "/api/teams/1/procurement",
		`{"items":[{"recipe_id":10,"servings":-1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	rec, body = do(t, h, http.MethodPost, "/api/teams/1/procurement", `{"items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body["code"])

	big := `{"items":[` + strings.Repeat(`{"recipe_id":10,"servings":1},`, 200) + `{"recipe_id":10,"servings":1}]}`
	rec, body = do(t, h, http.MethodPost, "/api/teams/1/procurement", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "REQUEST_TOO_LARGE", body["code"])
}

func TestUpdateIngredientPricing(t *testing.T) {
	h := newServer(t)
	payload := `{"version":1,"purchase_price_minor":220,"tax_included":true,"tax_rate_percent":10,"yield_rate_percent":92}`

	rec, body := do(t, h, http.MethodPut, "/api/teams/1/ingredients/2", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ing := body["ingredient"].(map[string]any)
	assert.Equal(t, 2.0, ing["version"])

	rec, body = do(t, h, http.MethodPut, "/api/teams/1/ingredients/2", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "STALE_VERSION", body["code"])

	rec, body = do(t, h, http.MethodPut, "/api/teams/1/ingredients/2",
		`{"version":2,"purchase_price_minor":220.5,"tax_included":true,"tax_rate_percent":10,"yield_rate_percent":92}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])

	rec, body = do(t, h, http.MethodPut, "/api/teams/1/ingredients/2",
		`{"version":2,"purchase_price_minor":220,"tax_included":true,"tax_rate_percent":-1,"yield_rate_percent":92}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestRegisterSupplier(t *testing.T) {
	h := newServer(t)

	rec, body := do(t, h, http.MethodPost, "/api/teams/1/suppliers", `{"name":"豊洲水産","lead_time_days":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sup := body["supplier"].(map[string]any)
	assert.Equal(t, "豊洲水産", sup["name"])

	rec, body = do(t, h, http.MethodGet, "/api/teams/1/suppliers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["suppliers"], 2)
}

func TestUnitsAndSchema(t *testing.T) {
	h := newServer(t)

	rec, body := do(t, h, http.MethodGet, "/api/units", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["units"])

	rec, body = do(t, h, http.MethodGet, "/api/schema/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/schema+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Recipe costing catalog", body["title"])
}

func TestCORS(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/teams/1/procurement", nil)
	req.Header.Set("Origin", "https://kitchen.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://kitchen.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
