package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"equisecure/internal/model"
	"equisecure/internal/service"

	"github.com/gorilla/mux"
)

// QuestionnaireHandler handles questionnaire authoring and retrieval
type QuestionnaireHandler struct {
	questionnaireSvc *service.QuestionnaireService
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(questionnaireSvc *service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireSvc: questionnaireSvc}
}

// GetActive handles GET /v1/questionnaires/active, the form every
// evaluation session starts from
func (h *QuestionnaireHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	questionnaire, err := h.questionnaireSvc.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveQuestionnaire) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, questionnaire)
}

// Create handles POST /v1/questionnaires
func (h *QuestionnaireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var questionnaire model.Questionnaire
	if err := json.NewDecoder(r.Body).Decode(&questionnaire); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if questionnaire.Name == "" {
		writeError(w, http.StatusBadRequest, "questionnaire name is required")
		return
	}

	id, err := h.questionnaireSvc.Create(r.Context(), &questionnaire)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	questionnaire.ID = id

	writeJSON(w, http.StatusCreated, &questionnaire)
}

// List handles GET /v1/questionnaires
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	questionnaires, err := h.questionnaireSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, questionnaires)
}

// Get handles GET /v1/questionnaires/{questionnaireId}
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionnaire, err := h.questionnaireSvc.GetByID(r.Context(), mux.Vars(r)["questionnaireId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if questionnaire == nil {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}

	writeJSON(w, http.StatusOK, questionnaire)
}

// Update handles PUT /v1/questionnaires/{questionnaireId}
func (h *QuestionnaireHandler) Update(w http.ResponseWriter, r *http.Request) {
	var questionnaire model.Questionnaire
	if err := json.NewDecoder(r.Body).Decode(&questionnaire); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	questionnaire.ID = mux.Vars(r)["questionnaireId"]

	if err := h.questionnaireSvc.Update(r.Context(), &questionnaire); err != nil {
		if errors.Is(err, service.ErrQuestionnaireNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &questionnaire)
}

// Delete handles DELETE /v1/questionnaires/{questionnaireId}
func (h *QuestionnaireHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.questionnaireSvc.Delete(r.Context(), mux.Vars(r)["questionnaireId"]); err != nil {
		if errors.Is(err, service.ErrQuestionnaireNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Activate handles POST /v1/questionnaires/{questionnaireId}/activate
func (h *QuestionnaireHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.questionnaireSvc.Activate(r.Context(), mux.Vars(r)["questionnaireId"]); err != nil {
		if errors.Is(err, service.ErrQuestionnaireNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}
