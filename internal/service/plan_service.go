package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"equisecure/internal/model"
	"equisecure/internal/repository"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanNotEditable  = errors.New("plan is not editable in its current status")
	ErrPlanEmptyContent = errors.New("plan content must not be empty")
	ErrBadCallbackKey   = errors.New("invalid callback key")
)

// PlanService manages biosecurity plan drafts and their lifecycle
type PlanService struct {
	planRepo       repository.PlanRepo
	evaluationRepo repository.EvaluationRepo
	callbackKey    string
	watcher        *PlanWatcher
}

// NewPlanService creates a new plan service. callbackKey guards the content
// callback from the external generator; empty disables the callback.
func NewPlanService(planRepo repository.PlanRepo, evaluationRepo repository.EvaluationRepo, callbackKey string) *PlanService {
	return &PlanService{
		planRepo:       planRepo,
		evaluationRepo: evaluationRepo,
		callbackKey:    callbackKey,
	}
}

// SetWatcher injects the plan-status watcher
func (s *PlanService) SetWatcher(watcher *PlanWatcher) {
	s.watcher = watcher
}

// Get returns the plan for an evaluation. Regular users may only see their
// own evaluations and only published plans; admins see everything.
func (s *PlanService) Get(ctx context.Context, evaluationID, userID string, isAdmin bool) (*model.Plan, error) {
	evaluation, err := s.evaluationRepo.GetByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation == nil {
		return nil, ErrEvaluationNotFound
	}
	if !isAdmin && evaluation.UserID != userID {
		return nil, ErrNotEvaluationOwner
	}

	plan, err := s.planRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !isAdmin && plan.Status != model.PlanPublished {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// Status returns the plan status for an evaluation, not_generated when no
// plan record exists yet
func (s *PlanService) Status(ctx context.Context, evaluationID string) (model.PlanStatus, error) {
	plan, err := s.planRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return "", err
	}
	if plan == nil {
		return model.PlanNotGenerated, nil
	}
	return plan.Status, nil
}

// UpdateDraft replaces the content of a draft plan
func (s *PlanService) UpdateDraft(ctx context.Context, evaluationID, content string) (*model.Plan, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrPlanEmptyContent
	}

	plan, err := s.planRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if plan.Status != model.PlanDraft {
		return nil, ErrPlanNotEditable
	}

	if err := s.planRepo.UpdateContent(ctx, evaluationID, content); err != nil {
		return nil, err
	}
	plan.Content = content
	return plan, nil
}

// Publish moves a draft plan to published and mirrors the status onto the
// evaluation so dashboards pick it up
func (s *PlanService) Publish(ctx context.Context, evaluationID string) (*model.Plan, error) {
	plan, err := s.planRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if plan.Status != model.PlanDraft {
		return nil, ErrPlanNotEditable
	}

	if err := s.setStatus(ctx, evaluationID, model.PlanPublished); err != nil {
		return nil, err
	}
	plan.Status = model.PlanPublished
	return plan, nil
}

// ReceiveContent is the callback for the external generator. The job id must
// match the pending plan and the key must match the configured callback key.
func (s *PlanService) ReceiveContent(ctx context.Context, evaluationID, jobID, key, content string) error {
	if s.callbackKey == "" || key != s.callbackKey {
		return ErrBadCallbackKey
	}
	if strings.TrimSpace(content) == "" {
		return ErrPlanEmptyContent
	}

	plan, err := s.planRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}
	if plan.Status != model.PlanGenerating {
		return ErrPlanNotEditable
	}
	if plan.JobID != jobID {
		return fmt.Errorf("job id mismatch for evaluation %s", evaluationID)
	}

	if err := s.planRepo.UpdateContent(ctx, evaluationID, content); err != nil {
		return err
	}
	return s.setStatus(ctx, evaluationID, model.PlanDraft)
}

func (s *PlanService) setStatus(ctx context.Context, evaluationID string, status model.PlanStatus) error {
	if err := s.planRepo.UpdateStatus(ctx, evaluationID, status); err != nil {
		return err
	}
	if err := s.evaluationRepo.UpdatePlanStatus(ctx, evaluationID, status); err != nil {
		return err
	}
	if s.watcher != nil {
		s.watcher.Publish(model.PlanStatusUpdate{EvaluationID: evaluationID, Status: status})
	}
	return nil
}
