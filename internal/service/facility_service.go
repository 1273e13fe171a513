package service

import (
	"context"
	"errors"
	"strings"

	"equisecure/internal/model"
	"equisecure/internal/repository"
)

var (
	ErrFacilityNotFound = errors.New("facility not found")
	ErrNotFacilityOwner = errors.New("facility belongs to another user")
	ErrFacilityName     = errors.New("facility name is required")
)

// FacilityService handles facility CRUD, scoped to the owning user
type FacilityService struct {
	facilityRepo repository.FacilityRepo
}

// NewFacilityService creates a new facility service
func NewFacilityService(facilityRepo repository.FacilityRepo) *FacilityService {
	return &FacilityService{facilityRepo: facilityRepo}
}

// Create stores a facility for the given owner
func (s *FacilityService) Create(ctx context.Context, userID string, facility *model.Facility) (string, error) {
	facility.Name = strings.TrimSpace(facility.Name)
	if facility.Name == "" {
		return "", ErrFacilityName
	}
	facility.UserID = userID
	facility.Region = strings.TrimSpace(facility.Region)
	facility.Type = strings.TrimSpace(facility.Type)

	return s.facilityRepo.Create(ctx, facility)
}

// GetOwned returns the facility if it exists and belongs to the user. Admins
// pass isAdmin to bypass the ownership check when viewing reports.
func (s *FacilityService) GetOwned(ctx context.Context, facilityID, userID string, isAdmin bool) (*model.Facility, error) {
	facility, err := s.facilityRepo.GetByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}
	if !isAdmin && facility.UserID != userID {
		return nil, ErrNotFacilityOwner
	}
	return facility, nil
}

// ListByUser returns the user's facilities, newest first
func (s *FacilityService) ListByUser(ctx context.Context, userID string) ([]*model.Facility, error) {
	return s.facilityRepo.GetByUserID(ctx, userID)
}

// Update replaces a facility's descriptors after an ownership check
func (s *FacilityService) Update(ctx context.Context, userID string, facility *model.Facility) error {
	existing, err := s.GetOwned(ctx, facility.ID, userID, false)
	if err != nil {
		return err
	}

	facility.Name = strings.TrimSpace(facility.Name)
	if facility.Name == "" {
		return ErrFacilityName
	}
	facility.UserID = existing.UserID
	facility.CreatedAt = existing.CreatedAt

	return s.facilityRepo.Update(ctx, facility)
}

// Delete removes a facility after an ownership check
func (s *FacilityService) Delete(ctx context.Context, facilityID, userID string) error {
	if _, err := s.GetOwned(ctx, facilityID, userID, false); err != nil {
		return err
	}
	return s.facilityRepo.Delete(ctx, facilityID)
}
