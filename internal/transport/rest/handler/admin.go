package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"equisecure/internal/model"
	"equisecure/internal/service"
	"equisecure/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// AdminHandler handles the admin user table and assessment exports
type AdminHandler struct {
	userSvc   *service.UserService
	exportSvc *service.ExportService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userSvc *service.UserService, exportSvc *service.ExportService) *AdminHandler {
	return &AdminHandler{userSvc: userSvc, exportSvc: exportSvc}
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// UpdateRoleRequest is the request body for changing a user's role
type UpdateRoleRequest struct {
	Role model.Role `json:"role" validate:"required"`
}

// UpdateUserRole handles PUT /v1/admin/users/{userId}/role
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	err := h.userSvc.UpdateRole(ctx, middleware.GetUserID(ctx), mux.Vars(r)["userId"], req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrSelfDemotion):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ListAssessments handles GET /v1/admin/assessments
func (h *AdminHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.exportSvc.ListAssessments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// Stats handles GET /v1/admin/assessments/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.exportSvc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ExportScores handles GET /v1/admin/assessments/export/scores
func (h *AdminHandler) ExportScores(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportSvc.ExportScores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeCSV(w, "assessment-scores", data)
}

// ExportFull handles GET /v1/admin/assessments/export/full
func (h *AdminHandler) ExportFull(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportSvc.ExportFull(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeCSV(w, "assessment-full", data)
}

func writeCSV(w http.ResponseWriter, name string, data []byte) {
	filename := name + "-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
