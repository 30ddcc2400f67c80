package web

import (
	"net/http"

	"recipe-costing/internal/app"
)

// apiListIngredients handles GET /api/teams/{team}/ingredients.
func (h *Handler) apiListIngredients(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListIngredients(r.Context(), team)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRegisterIngredient handles POST /api/teams/{team}/ingredients.
func (h *Handler) apiRegisterIngredient(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	var req app.RegisterIngredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.TeamID = team

	result, err := h.svc.RegisterIngredient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiUpdateIngredientPricing handles PUT /api/teams/{team}/ingredients/{id}.
// Body: { version, purchase_price_minor, tax_included, tax_rate_percent, yield_rate_percent }
func (h *Handler) apiUpdateIngredientPricing(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	id, ok := positiveParam(w, r, "id")
	if !ok {
		return
	}
	var req app.UpdateIngredientPricingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Version <= 0 {
		writeError(w, r, "version is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req.TeamID = team
	req.IngredientID = id

	result, err := h.svc.UpdateIngredientPricing(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListRecipes handles GET /api/teams/{team}/recipes.
func (h *Handler) apiListRecipes(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListRecipes(r.Context(), team)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRecipeCost handles GET /api/teams/{team}/recipes/{id}/cost.
func (h *Handler) apiRecipeCost(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	id, ok := positiveParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetRecipeCost(r.Context(), team, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiPreviewRecipeCost handles POST /api/teams/{team}/recipes/preview-cost.
func (h *Handler) apiPreviewRecipeCost(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	var req app.PreviewRecipeCostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.TeamID = team

	result, err := h.svc.PreviewRecipeCost(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListSuppliers handles GET /api/teams/{team}/suppliers.
func (h *Handler) apiListSuppliers(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListSuppliers(r.Context(), team)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRegisterSupplier handles POST /api/teams/{team}/suppliers.
// Body: { name, lead_time_days? }
func (h *Handler) apiRegisterSupplier(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	var req app.RegisterSupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.TeamID = team

	result, err := h.svc.RegisterSupplier(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}
