package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"equisecure/internal/cache"
	"equisecure/internal/model"
	"equisecure/internal/repository"
	"equisecure/internal/scoring"

	"github.com/google/uuid"
)

var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrNotEvaluationOwner = errors.New("evaluation belongs to another user")
	ErrNoAnswers          = errors.New("evaluation has no answers")
)

// SubmitEvaluationRequest is the submission payload from the evaluation form
type SubmitEvaluationRequest struct {
	FacilityID string         `json:"facilityId" validate:"required"`
	Answers    []model.Answer `json:"answers" validate:"required,min=1"`
}

// ReportSectionScore is one live-questionnaire section resolved against the
// frozen evaluation. HasScore is false when the stored evaluation has no
// entry for the section (authored after the evaluation was taken).
type ReportSectionScore struct {
	SectionID   string            `json:"sectionId"`
	SectionName string            `json:"sectionName"`
	Score       float64           `json:"score"` // 0..1 fraction
	HasScore    bool              `json:"hasScore"`
	RiskLevel   scoring.RiskLabel `json:"riskLevel"`
}

// ReportAnswer is a resolved answer line for the admin detail view
type ReportAnswer struct {
	SectionName  string  `json:"sectionName"`
	QuestionText string  `json:"questionText"`
	AnswerText   string  `json:"answerText"`
	Score        float64 `json:"score"`
}

// EvaluationReport is the full report page payload
type EvaluationReport struct {
	Evaluation      *model.Evaluation        `json:"evaluation"`
	Facility        *model.Facility          `json:"facility"`
	TotalRiskLevel  scoring.RiskLabel        `json:"totalRiskLevel"`
	SectionScores   []ReportSectionScore     `json:"sectionScores"`
	Recommendations []scoring.Recommendation `json:"recommendations"`
	Answers         []ReportAnswer           `json:"answers,omitempty"` // admin only
}

// DashboardCard is one facility summary on the user dashboard
type DashboardCard struct {
	Facility         *model.Facility   `json:"facility"`
	LatestEvaluation *model.Evaluation `json:"latestEvaluation,omitempty"`
	RiskLevel        scoring.RiskLabel `json:"riskLevel,omitempty"`
	PlanStatus       model.PlanStatus  `json:"planStatus,omitempty"`
}

// EvaluationService runs submissions and assembles reports
type EvaluationService struct {
	evaluationRepo   repository.EvaluationRepo
	questionnaireSvc *QuestionnaireService
	facilitySvc      *FacilityService
	planRepo         repository.PlanRepo
	planGen          *PlanGenClient
	statsCache       cache.StatsCache
	watcher          *PlanWatcher
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(
	evaluationRepo repository.EvaluationRepo,
	questionnaireSvc *QuestionnaireService,
	facilitySvc *FacilityService,
	planRepo repository.PlanRepo,
	planGen *PlanGenClient,
	statsCache cache.StatsCache,
) *EvaluationService {
	return &EvaluationService{
		evaluationRepo:   evaluationRepo,
		questionnaireSvc: questionnaireSvc,
		facilitySvc:      facilitySvc,
		planRepo:         planRepo,
		planGen:          planGen,
		statsCache:       statsCache,
	}
}

// SetWatcher injects the plan-status watcher (wired after construction, the
// watcher needs the repos too)
func (s *EvaluationService) SetWatcher(watcher *PlanWatcher) {
	s.watcher = watcher
}

// Submit freezes the scores of an answer set against the active
// questionnaire and persists the evaluation. The evaluation row is
// authoritative: a failure there aborts the submission, while answer-row
// failures and the plan-generation notification are logged and non-fatal.
func (s *EvaluationService) Submit(ctx context.Context, userID string, req *SubmitEvaluationRequest) (*model.Evaluation, error) {
	questionnaire, err := s.questionnaireSvc.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	facility, err := s.facilitySvc.GetOwned(ctx, req.FacilityID, userID, false)
	if err != nil {
		return nil, err
	}

	if len(req.Answers) == 0 {
		return nil, ErrNoAnswers
	}
	answers := answerMap(req.Answers)

	sections := scoring.ComputeSections(questionnaire, answers)
	total := scoring.ComputeTotal(sections)

	sectionScores := make([]model.SectionScoreEntry, 0, len(sections))
	for _, ss := range sections {
		sectionScores = append(sectionScores, model.SectionScoreEntry{
			SectionID: ss.SectionID,
			Score:     scoring.Fraction(ss.Current, ss.Max),
		})
	}

	evaluation := &model.Evaluation{
		FacilityID:      facility.ID,
		QuestionnaireID: questionnaire.ID,
		UserID:          userID,
		TotalScore:      scoring.Fraction(total.Current, total.Max),
		SectionScores:   sectionScores,
		PlanStatus:      model.PlanNotGenerated,
	}

	id, err := s.evaluationRepo.Create(ctx, evaluation)
	if err != nil {
		return nil, err
	}
	evaluation.ID = id

	// The evaluation is recorded at this point; answer rows are subsidiary.
	rows := make([]model.EvaluationAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		rows = append(rows, model.EvaluationAnswer{
			EvaluationID:    id,
			QuestionID:      a.QuestionID,
			SelectedOptions: a.SelectedOptions,
			TextAnswer:      a.TextAnswer,
		})
	}
	if err := s.evaluationRepo.InsertAnswers(ctx, rows); err != nil {
		log.Printf("EVALUATION ANSWERS PARTIALLY SAVED: evaluation %s kept, answers failed: %v", id, err)
	}

	if err := s.statsCache.Invalidate(ctx); err != nil {
		log.Printf("stats cache invalidate failed: %v", err)
	}

	s.startPlanGeneration(evaluation, facility, questionnaire, answers)

	return evaluation, nil
}

// startPlanGeneration fires the best-effort webhook and begins watching the
// resulting job. Runs detached; submission has already succeeded.
func (s *EvaluationService) startPlanGeneration(evaluation *model.Evaluation, facility *model.Facility, questionnaire *model.Questionnaire, answers map[string]model.Answer) {
	if s.planGen == nil || !s.planGen.IsEnabled() {
		return
	}

	jobID := uuid.New().String()
	recommendations := scoring.DeriveRecommendations(questionnaire, answers)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		plan := &model.Plan{
			EvaluationID: evaluation.ID,
			Status:       model.PlanGenerating,
			JobID:        jobID,
		}
		if err := s.planRepo.Upsert(ctx, plan); err != nil {
			log.Printf("plan record create failed for evaluation %s: %v", evaluation.ID, err)
			return
		}
		if err := s.evaluationRepo.UpdatePlanStatus(ctx, evaluation.ID, model.PlanGenerating); err != nil {
			log.Printf("plan status update failed for evaluation %s: %v", evaluation.ID, err)
		}

		if s.watcher != nil {
			s.watcher.Watch(evaluation.ID)
		}

		req := BuildRequest(jobID, evaluation, facility, questionnaire, recommendations)
		if err := s.planGen.Notify(ctx, req); err != nil {
			// Swallowed by design: generation is best effort.
			log.Printf("plan generation notify failed for evaluation %s: %v", evaluation.ID, err)
			if err := s.planRepo.UpdateStatus(ctx, evaluation.ID, model.PlanNotGenerated); err != nil {
				log.Printf("plan status reset failed for evaluation %s: %v", evaluation.ID, err)
			}
			if err := s.evaluationRepo.UpdatePlanStatus(ctx, evaluation.ID, model.PlanNotGenerated); err != nil {
				log.Printf("plan status reset failed for evaluation %s: %v", evaluation.ID, err)
			}
		}
	}()
}

// GetReport assembles the report page for an evaluation. Regular users may
// only see their own; admins see any, including resolved answer lines.
func (s *EvaluationService) GetReport(ctx context.Context, evaluationID, userID string, isAdmin bool) (*EvaluationReport, error) {
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

	facility, err := s.facilitySvc.GetOwned(ctx, evaluation.FacilityID, userID, true)
	if err != nil {
		return nil, err
	}

	questionnaire, err := s.questionnaireSvc.GetByID(ctx, evaluation.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	if questionnaire == nil {
		return nil, ErrQuestionnaireNotFound
	}

	rows, err := s.evaluationRepo.GetAnswers(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	answers := make(map[string]model.Answer, len(rows))
	for _, row := range rows {
		answers[row.QuestionID] = model.Answer{
			QuestionID:      row.QuestionID,
			SelectedOptions: row.SelectedOptions,
			TextAnswer:      row.TextAnswer,
		}
	}

	stored := make(map[string]float64, len(evaluation.SectionScores))
	for _, ss := range evaluation.SectionScores {
		stored[ss.SectionID] = ss.Score
	}

	// Sections are resolved against the live questionnaire; a section added
	// after this evaluation was taken renders without a score instead of
	// failing the whole report.
	sectionScores := make([]ReportSectionScore, 0, len(questionnaire.Sections))
	for i := range questionnaire.Sections {
		section := &questionnaire.Sections[i]
		score, ok := stored[section.ID]
		sectionScores = append(sectionScores, ReportSectionScore{
			SectionID:   section.ID,
			SectionName: section.Name,
			Score:       score,
			HasScore:    ok,
			RiskLevel:   scoring.ReportRiskLevel(score),
		})
	}

	report := &EvaluationReport{
		Evaluation:      evaluation,
		Facility:        facility,
		TotalRiskLevel:  scoring.ReportRiskLevel(evaluation.TotalScore),
		SectionScores:   sectionScores,
		Recommendations: scoring.DeriveRecommendations(questionnaire, answers),
	}

	if isAdmin {
		report.Answers = resolveAnswers(questionnaire, answers)
	}

	return report, nil
}

// LatestAnswers returns the most recent evaluation's answers for a facility,
// used to pre-fill a re-evaluation session
func (s *EvaluationService) LatestAnswers(ctx context.Context, facilityID, userID string) ([]model.Answer, error) {
	if _, err := s.facilitySvc.GetOwned(ctx, facilityID, userID, false); err != nil {
		return nil, err
	}

	latest, err := s.evaluationRepo.GetLatestByFacilityID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return []model.Answer{}, nil
	}

	rows, err := s.evaluationRepo.GetAnswers(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	answers := make([]model.Answer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, model.Answer{
			QuestionID:      row.QuestionID,
			SelectedOptions: row.SelectedOptions,
			TextAnswer:      row.TextAnswer,
		})
	}
	return answers, nil
}

// Dashboard builds the per-facility summary cards for a user
func (s *EvaluationService) Dashboard(ctx context.Context, userID string) ([]DashboardCard, error) {
	facilities, err := s.facilitySvc.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cards := make([]DashboardCard, 0, len(facilities))
	for _, facility := range facilities {
		card := DashboardCard{Facility: facility}

		latest, err := s.evaluationRepo.GetLatestByFacilityID(ctx, facility.ID)
		if err != nil {
			log.Printf("latest evaluation lookup failed for facility %s: %v", facility.ID, err)
		}
		if latest != nil {
			card.LatestEvaluation = latest
			card.RiskLevel = scoring.RiskLevel(latest.TotalScore)
			card.PlanStatus = latest.PlanStatus
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func answerMap(answers []model.Answer) map[string]model.Answer {
	m := make(map[string]model.Answer, len(answers))
	for _, a := range answers {
		m[a.QuestionID] = a
	}
	return m
}

// resolveAnswers renders every question's answer as display text, in
// questionnaire order
func resolveAnswers(questionnaire *model.Questionnaire, answers map[string]model.Answer) []ReportAnswer {
	resolved := []ReportAnswer{}

	for i := range questionnaire.Sections {
		section := &questionnaire.Sections[i]
		for j := range section.Questions {
			question := &section.Questions[j]

			text := "No answer"
			score := 0.0
			if answer, ok := answers[question.ID]; ok {
				if question.Type == model.QuestionTypeFreeText {
					if answer.TextAnswer != "" {
						text = answer.TextAnswer
					}
				} else {
					selected := []string{}
					for _, optID := range answer.SelectedOptions {
						if opt := question.FindOption(optID); opt != nil {
							selected = append(selected, opt.Text)
						}
					}
					if len(selected) > 0 {
						text = strings.Join(selected, ", ")
					}
					score = scoring.QuestionCurrentScore(question, &answer)
				}
			}

			resolved = append(resolved, ReportAnswer{
				SectionName:  section.Name,
				QuestionText: question.Text,
				AnswerText:   text,
				Score:        score,
			})
		}
	}
	return resolved
}
