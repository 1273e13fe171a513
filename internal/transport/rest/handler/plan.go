package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"equisecure/internal/service"
	"equisecure/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// PlanHandler handles biosecurity plan endpoints
type PlanHandler struct {
	planSvc *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planSvc *service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// Get handles GET /v1/plans/{evaluationId}
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plan, err := h.planSvc.Get(ctx, mux.Vars(r)["evaluationId"], middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Status handles GET /v1/plans/{evaluationId}/status, polled by clients
// while a plan is being generated
func (h *PlanHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.planSvc.Status(r.Context(), mux.Vars(r)["evaluationId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// UpdatePlanRequest is the request body for editing a draft plan
type UpdatePlanRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateDraft handles PUT /v1/plans/{evaluationId}
func (h *PlanHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planSvc.UpdateDraft(r.Context(), mux.Vars(r)["evaluationId"], req.Content)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Publish handles POST /v1/plans/{evaluationId}/publish
func (h *PlanHandler) Publish(w http.ResponseWriter, r *http.Request) {
	plan, err := h.planSvc.Publish(r.Context(), mux.Vars(r)["evaluationId"])
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// PlanContentRequest is the payload the external generator posts back
type PlanContentRequest struct {
	JobID   string `json:"jobId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// ReceiveContent handles POST /v1/plans/{evaluationId}/content, the callback
// from the external generator. Authenticated by shared key, not by JWT.
func (h *PlanHandler) ReceiveContent(w http.ResponseWriter, r *http.Request) {
	var req PlanContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := r.Header.Get("X-Callback-Key")
	err := h.planSvc.ReceiveContent(r.Context(), mux.Vars(r)["evaluationId"], req.JobID, key, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrBadCallbackKey) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrEvaluationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotEvaluationOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotEditable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPlanEmptyContent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
