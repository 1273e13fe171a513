package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"equisecure/internal/service"
	"equisecure/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// EvaluationHandler handles evaluation submission, reports and the dashboard
type EvaluationHandler struct {
	evaluationSvc *service.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationSvc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

// Submit handles POST /v1/evaluations
func (h *EvaluationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	evaluation, err := h.evaluationSvc.Submit(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, evaluation)
}

// GetReport handles GET /v1/evaluations/{evaluationId}/report
func (h *EvaluationHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.evaluationSvc.GetReport(ctx, mux.Vars(r)["evaluationId"], middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// LatestAnswers handles GET /v1/facilities/{facilityId}/answers/latest,
// used to pre-fill a re-evaluation
func (h *EvaluationHandler) LatestAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	answers, err := h.evaluationSvc.LatestAnswers(ctx, mux.Vars(r)["facilityId"], middleware.GetUserID(ctx))
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"answers": answers})
}

// Dashboard handles GET /v1/dashboard
func (h *EvaluationHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cards, err := h.evaluationSvc.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"facilities": cards})
}

// writeEvaluationError maps evaluation service errors to HTTP statuses.
// Missing active questionnaire is a 404 terminal state, same as GetActive.
func writeEvaluationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound), errors.Is(err, service.ErrFacilityNotFound),
		errors.Is(err, service.ErrQuestionnaireNotFound), errors.Is(err, service.ErrNoActiveQuestionnaire):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotEvaluationOwner), errors.Is(err, service.ErrNotFacilityOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNoAnswers):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
