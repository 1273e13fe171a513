package service

import (
	"context"
	"errors"
	"testing"

	"equisecure/internal/model"
)

func newTestPlanService() (*PlanService, *fakePlanRepo, *fakeEvaluationRepo) {
	planRepo := newFakePlanRepo()
	evaluationRepo := newFakeEvaluationRepo()
	svc := NewPlanService(planRepo, evaluationRepo, "callback-key")
	return svc, planRepo, evaluationRepo
}

func seedPlan(t *testing.T, planRepo *fakePlanRepo, evaluationRepo *fakeEvaluationRepo, status model.PlanStatus) string {
	t.Helper()
	ctx := context.Background()

	evaluationID, err := evaluationRepo.Create(ctx, &model.Evaluation{UserID: "user-1", PlanStatus: status})
	if err != nil {
		t.Fatalf("seed evaluation: %v", err)
	}
	plan := &model.Plan{EvaluationID: evaluationID, Status: status, JobID: "job-1"}
	if status == model.PlanDraft || status == model.PlanPublished {
		plan.Content = "wash hands"
	}
	if err := planRepo.Upsert(ctx, plan); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return evaluationID
}

func TestPlanGetVisibility(t *testing.T) {
	svc, planRepo, evaluationRepo := newTestPlanService()
	ctx := context.Background()

	draftID := seedPlan(t, planRepo, evaluationRepo, model.PlanDraft)
	publishedID := seedPlan(t, planRepo, evaluationRepo, model.PlanPublished)

	// Drafts are admin only
	if _, err := svc.Get(ctx, draftID, "user-1", false); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("draft visible to owner: got %v", err)
	}
	if _, err := svc.Get(ctx, draftID, "admin-1", true); err != nil {
		t.Errorf("draft hidden from admin: %v", err)
	}

	// Published plans are visible to the owner, not to strangers
	if _, err := svc.Get(ctx, publishedID, "user-1", false); err != nil {
		t.Errorf("published plan hidden from owner: %v", err)
	}
	if _, err := svc.Get(ctx, publishedID, "intruder", false); !errors.Is(err, ErrNotEvaluationOwner) {
		t.Errorf("published plan visible to stranger: got %v", err)
	}
}

func TestPlanStatus(t *testing.T) {
	svc, planRepo, evaluationRepo := newTestPlanService()
	ctx := context.Background()

	status, err := svc.Status(ctx, "no-such-evaluation")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != model.PlanNotGenerated {
		t.Errorf("missing plan status = %q, want %q", status, model.PlanNotGenerated)
	}

	evaluationID := seedPlan(t, planRepo, evaluationRepo, model.PlanGenerating)
	status, err = svc.Status(ctx, evaluationID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != model.PlanGenerating {
		t.Errorf("status = %q, want %q", status, model.PlanGenerating)
	}
}

func TestPlanDraftLifecycle(t *testing.T) {
	svc, planRepo, evaluationRepo := newTestPlanService()
	ctx := context.Background()

	evaluationID := seedPlan(t, planRepo, evaluationRepo, model.PlanDraft)

	plan, err := svc.UpdateDraft(ctx, evaluationID, "boot dips at every entrance")
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if plan.Content != "boot dips at every entrance" {
		t.Errorf("content = %q", plan.Content)
	}

	if _, err := svc.UpdateDraft(ctx, evaluationID, "   "); !errors.Is(err, ErrPlanEmptyContent) {
		t.Errorf("blank content: got %v", err)
	}

	published, err := svc.Publish(ctx, evaluationID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Status != model.PlanPublished {
		t.Errorf("status = %q, want %q", published.Status, model.PlanPublished)
	}

	// Published plans are frozen
	if _, err := svc.UpdateDraft(ctx, evaluationID, "more"); !errors.Is(err, ErrPlanNotEditable) {
		t.Errorf("edit after publish: got %v", err)
	}
	if _, err := svc.Publish(ctx, evaluationID); !errors.Is(err, ErrPlanNotEditable) {
		t.Errorf("double publish: got %v", err)
	}

	// Evaluation mirrors the status for the dashboard
	evaluation, _ := evaluationRepo.GetByID(ctx, evaluationID)
	if evaluation.PlanStatus != model.PlanPublished {
		t.Errorf("evaluation plan status = %q, want %q", evaluation.PlanStatus, model.PlanPublished)
	}
}

func TestPlanReceiveContent(t *testing.T) {
	svc, planRepo, evaluationRepo := newTestPlanService()
	ctx := context.Background()

	evaluationID := seedPlan(t, planRepo, evaluationRepo, model.PlanGenerating)

	if err := svc.ReceiveContent(ctx, evaluationID, "job-1", "wrong-key", "plan text"); !errors.Is(err, ErrBadCallbackKey) {
		t.Errorf("wrong key: got %v", err)
	}

	if err := svc.ReceiveContent(ctx, evaluationID, "other-job", "callback-key", "plan text"); err == nil {
		t.Error("mismatched job id should be rejected")
	}

	if err := svc.ReceiveContent(ctx, evaluationID, "job-1", "callback-key", "plan text"); err != nil {
		t.Fatalf("ReceiveContent: %v", err)
	}

	plan, _ := planRepo.GetByEvaluationID(ctx, evaluationID)
	if plan.Status != model.PlanDraft {
		t.Errorf("status = %q, want %q", plan.Status, model.PlanDraft)
	}
	if plan.Content != "plan text" {
		t.Errorf("content = %q", plan.Content)
	}

	// A second delivery for the same job is rejected, the plan is a draft now
	if err := svc.ReceiveContent(ctx, evaluationID, "job-1", "callback-key", "again"); !errors.Is(err, ErrPlanNotEditable) {
		t.Errorf("replayed callback: got %v", err)
	}
}

func TestPlanReceiveContentDisabled(t *testing.T) {
	planRepo := newFakePlanRepo()
	evaluationRepo := newFakeEvaluationRepo()
	svc := NewPlanService(planRepo, evaluationRepo, "")

	evaluationID := seedPlan(t, planRepo, evaluationRepo, model.PlanGenerating)

	// With no key configured the callback is closed, even to empty keys
	if err := svc.ReceiveContent(context.Background(), evaluationID, "job-1", "", "plan text"); !errors.Is(err, ErrBadCallbackKey) {
		t.Errorf("disabled callback: got %v", err)
	}
}
