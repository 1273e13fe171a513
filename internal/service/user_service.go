package service

import (
	"context"
	"errors"

	"equisecure/internal/model"
	"equisecure/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
	ErrSelfDemotion = errors.New("admins cannot change their own role")
)

// UserService covers admin user management and consent
type UserService struct {
	userRepo repository.UserRepo
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// Get returns one user by id
func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns all users, for the admin user table
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateRole changes a user's role. An admin may not change their own role,
// so the system always keeps at least one admin reachable.
func (s *UserService) UpdateRole(ctx context.Context, actorID, userID string, role model.Role) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return ErrInvalidRole
	}
	if actorID == userID {
		return ErrSelfDemotion
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.UpdateRole(ctx, userID, role)
}

// SetConsent records the data-processing consent decision for a user
func (s *UserService) SetConsent(ctx context.Context, userID string, consented bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.SetConsent(ctx, userID, consented)
}
