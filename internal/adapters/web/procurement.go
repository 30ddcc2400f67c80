package web

import (
	"net/http"

	"recipe-costing/internal/app"
)

// apiCalculateProcurement handles POST /api/teams/{team}/procurement.
// Body: { items: [{ recipe_id, servings }] }
func (h *Handler) apiCalculateProcurement(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	var req app.ProcurementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.TeamID = team

	result, err := h.svc.CalculateProcurement(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSalesPlanProcurement handles GET /api/teams/{team}/sales-plans/{id}/procurement.
func (h *Handler) apiSalesPlanProcurement(w http.ResponseWriter, r *http.Request) {
	team, ok := teamID(w, r)
	if !ok {
		return
	}
	id, ok := positiveParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.CalculateSalesPlan(r.Context(), team, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
