package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"equisecure/internal/cache"
	"equisecure/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := fmt.Sprintf("user-%d", r.next)
	u := *user
	u.ID = id
	u.CreatedAt = time.Now()
	r.users[id] = &u
	return id, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.User{}
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *fakeUserRepo) SetConsent(ctx context.Context, id string, consented bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.HasConsented = consented
	}
	return nil
}

type fakeFacilityRepo struct {
	mu         sync.Mutex
	facilities map[string]*model.Facility
	next       int
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: map[string]*model.Facility{}}
}

func (r *fakeFacilityRepo) Create(ctx context.Context, facility *model.Facility) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := fmt.Sprintf("facility-%d", r.next)
	f := *facility
	f.ID = id
	f.CreatedAt = time.Now()
	r.facilities[id] = &f
	return id, nil
}

func (r *fakeFacilityRepo) GetByID(ctx context.Context, id string) (*model.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.facilities[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeFacilityRepo) GetByUserID(ctx context.Context, userID string) ([]*model.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Facility{}
	for _, f := range r.facilities {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFacilityRepo) Update(ctx context.Context, facility *model.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.facilities[facility.ID]; ok {
		f.Name = facility.Name
		f.Region = facility.Region
		f.Type = facility.Type
	}
	return nil
}

func (r *fakeFacilityRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.facilities, id)
	return nil
}

type fakeQuestionnaireRepo struct {
	mu             sync.Mutex
	questionnaires map[string]*model.Questionnaire
	next           int
}

func newFakeQuestionnaireRepo() *fakeQuestionnaireRepo {
	return &fakeQuestionnaireRepo{questionnaires: map[string]*model.Questionnaire{}}
}

func (r *fakeQuestionnaireRepo) Create(ctx context.Context, questionnaire *model.Questionnaire) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := fmt.Sprintf("questionnaire-%d", r.next)
	q := *questionnaire
	q.ID = id
	r.questionnaires[id] = &q
	return id, nil
}

func (r *fakeQuestionnaireRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.questionnaires[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeQuestionnaireRepo) GetActive(ctx context.Context) (*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questionnaires {
		if q.IsActive {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuestionnaireRepo) List(ctx context.Context) ([]*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Questionnaire{}
	for _, q := range r.questionnaires {
		cp := *q
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeQuestionnaireRepo) Update(ctx context.Context, questionnaire *model.Questionnaire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *questionnaire
	r.questionnaires[questionnaire.ID] = &cp
	return nil
}

func (r *fakeQuestionnaireRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questionnaires, id)
	return nil
}

func (r *fakeQuestionnaireRepo) SetActive(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questionnaires[id]; !ok {
		return mongo.ErrNoDocuments
	}
	for qid, q := range r.questionnaires {
		q.IsActive = qid == id
	}
	return nil
}

type fakeEvaluationRepo struct {
	mu          sync.Mutex
	evaluations map[string]*model.Evaluation
	answers     map[string][]model.EvaluationAnswer
	next        int
	answersErr  error
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{
		evaluations: map[string]*model.Evaluation{},
		answers:     map[string][]model.EvaluationAnswer{},
	}
}

func (r *fakeEvaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := fmt.Sprintf("evaluation-%d", r.next)
	e := *evaluation
	e.ID = id
	e.CreatedAt = time.Now()
	if e.PlanStatus == "" {
		e.PlanStatus = model.PlanNotGenerated
	}
	r.evaluations[id] = &e
	return id, nil
}

func (r *fakeEvaluationRepo) GetByID(ctx context.Context, id string) (*model.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.evaluations[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeEvaluationRepo) List(ctx context.Context) ([]*model.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Evaluation{}
	for _, e := range r.evaluations {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeEvaluationRepo) GetByFacilityID(ctx context.Context, facilityID string) ([]*model.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Evaluation{}
	for _, e := range r.evaluations {
		if e.FacilityID == facilityID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEvaluationRepo) GetLatestByFacilityID(ctx context.Context, facilityID string) (*model.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.Evaluation
	for _, e := range r.evaluations {
		if e.FacilityID != facilityID {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeEvaluationRepo) UpdatePlanStatus(ctx context.Context, id string, status model.PlanStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.evaluations[id]; ok {
		e.PlanStatus = status
	}
	return nil
}

func (r *fakeEvaluationRepo) InsertAnswers(ctx context.Context, answers []model.EvaluationAnswer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.answersErr != nil {
		return r.answersErr
	}
	for _, a := range answers {
		r.answers[a.EvaluationID] = append(r.answers[a.EvaluationID], a)
	}
	return nil
}

func (r *fakeEvaluationRepo) GetAnswers(ctx context.Context, evaluationID string) ([]model.EvaluationAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.EvaluationAnswer{}, r.answers[evaluationID]...), nil
}

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]*model.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*model.Plan{}}
}

func (r *fakePlanRepo) Upsert(ctx context.Context, plan *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *plan
	r.plans[plan.EvaluationID] = &cp
	return nil
}

func (r *fakePlanRepo) GetByEvaluationID(ctx context.Context, evaluationID string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plans[evaluationID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePlanRepo) UpdateStatus(ctx context.Context, evaluationID string, status model.PlanStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plans[evaluationID]; ok {
		p.Status = status
	}
	return nil
}

func (r *fakePlanRepo) UpdateContent(ctx context.Context, evaluationID, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plans[evaluationID]; ok {
		p.Content = content
	}
	return nil
}

type fakeQuestionnaireCache struct{}

func (fakeQuestionnaireCache) GetActive(ctx context.Context) (*model.Questionnaire, error) {
	return nil, nil
}

func (fakeQuestionnaireCache) SetActive(ctx context.Context, questionnaire *model.Questionnaire) error {
	return nil
}

func (fakeQuestionnaireCache) InvalidateActive(ctx context.Context) error {
	return nil
}

type fakeStatsCache struct {
	mu          sync.Mutex
	stats       *cache.RiskStats
	invalidated int
}

func (c *fakeStatsCache) Get(ctx context.Context) (*cache.RiskStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, nil
}

func (c *fakeStatsCache) Set(ctx context.Context, stats *cache.RiskStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	return nil
}

func (c *fakeStatsCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	c.invalidated++
	return nil
}
