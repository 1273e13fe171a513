package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"equisecure/internal/model"
	"equisecure/internal/service"
	"equisecure/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// FacilityHandler handles facility endpoints
type FacilityHandler struct {
	facilitySvc *service.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilitySvc *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilitySvc: facilitySvc}
}

// FacilityRequest is the request body for creating or updating a facility
type FacilityRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Region string `json:"region" validate:"max=200"`
	Type   string `json:"type" validate:"max=100"`
}

// Create handles POST /v1/facilities
func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	facility := &model.Facility{Name: req.Name, Region: req.Region, Type: req.Type}

	id, err := h.facilitySvc.Create(r.Context(), userID, facility)
	if err != nil {
		if errors.Is(err, service.ErrFacilityName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	facility.ID = id

	writeJSON(w, http.StatusCreated, facility)
}

// List handles GET /v1/facilities
func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	facilities, err := h.facilitySvc.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, facilities)
}

// Get handles GET /v1/facilities/{facilityId}
func (h *FacilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	facilityID := mux.Vars(r)["facilityId"]
	ctx := r.Context()

	facility, err := h.facilitySvc.GetOwned(ctx, facilityID, middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		writeFacilityError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, facility)
}

// Update handles PUT /v1/facilities/{facilityId}
func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req FacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	facility := &model.Facility{
		ID:     mux.Vars(r)["facilityId"],
		Name:   req.Name,
		Region: req.Region,
		Type:   req.Type,
	}

	if err := h.facilitySvc.Update(r.Context(), middleware.GetUserID(r.Context()), facility); err != nil {
		writeFacilityError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, facility)
}

// Delete handles DELETE /v1/facilities/{facilityId}
func (h *FacilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	facilityID := mux.Vars(r)["facilityId"]

	if err := h.facilitySvc.Delete(r.Context(), facilityID, middleware.GetUserID(r.Context())); err != nil {
		writeFacilityError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeFacilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFacilityNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotFacilityOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrFacilityName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
