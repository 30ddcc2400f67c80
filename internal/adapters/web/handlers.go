package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"recipe-costing/internal/app"
	"recipe-costing/internal/store/file"
)

// Handler holds the ApplicationService behind the chi router.
type Handler struct {
	svc app.ApplicationService
}

// NewHandler creates and wires the chi router with all routes.
// bodyLimit caps JSON request bodies; zero or less means 1 MB.
func NewHandler(svc app.ApplicationService, allowedOrigins string, bodyLimit int64) http.Handler {
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	r.Get("/api/units", h.apiListUnits)
	r.Get("/api/schema/catalog", h.apiCatalogSchema)

	r.Route("/api/teams/{team}", func(r chi.Router) {
		r.Use(RequestBodyLimit(bodyLimit))

		r.Get("/ingredients", h.apiListIngredients)
		r.Post("/ingredients", h.apiRegisterIngredient)
		r.Put("/ingredients/{id}", h.apiUpdateIngredientPricing)

		r.Get("/recipes", h.apiListRecipes)
		r.Get("/recipes/{id}/cost", h.apiRecipeCost)
		r.Post("/recipes/preview-cost", h.apiPreviewRecipeCost)

		r.Get("/suppliers", h.apiListSuppliers)
		r.Post("/suppliers", h.apiRegisterSupplier)

		r.Post("/procurement", h.apiCalculateProcurement)
		r.Get("/sales-plans/{id}/procurement", h.apiSalesPlanProcurement)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Units  int    `json:"units"`
	}
	writeJSON(w, response{Status: "ok", Units: len(h.svc.ListUnits(r.Context()).Units)})
}

// apiListUnits handles GET /api/units.
func (h *Handler) apiListUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.ListUnits(r.Context()))
}

// apiCatalogSchema handles GET /api/schema/catalog.
func (h *Handler) apiCatalogSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := file.Schema()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(schema)
}

// teamID extracts the {team} URL parameter. It writes a 400 and returns false when
// the parameter is not a positive integer.
func teamID(w http.ResponseWriter, r *http.Request) (int, bool) {
	return positiveParam(w, r, "team")
}

func positiveParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		writeError(w, r, name+" must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
