package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"time"

	"equisecure/internal/cache"
	"equisecure/internal/model"
	"equisecure/internal/repository"
	"equisecure/internal/scoring"
)

// AssessmentRow is one evaluation joined with its facility and submitter
// for the admin assessment table
type AssessmentRow struct {
	Evaluation   *model.Evaluation `json:"evaluation"`
	FacilityName string            `json:"facilityName"`
	UserEmail    string            `json:"userEmail"`
	RiskLevel    scoring.RiskLabel `json:"riskLevel"`
}

// ExportService serves the admin assessment overview and CSV exports
type ExportService struct {
	evaluationRepo    repository.EvaluationRepo
	facilityRepo      repository.FacilityRepo
	userRepo          repository.UserRepo
	questionnaireRepo repository.QuestionnaireRepo
	statsCache        cache.StatsCache
}

// NewExportService creates a new export service
func NewExportService(
	evaluationRepo repository.EvaluationRepo,
	facilityRepo repository.FacilityRepo,
	userRepo repository.UserRepo,
	questionnaireRepo repository.QuestionnaireRepo,
	statsCache cache.StatsCache,
) *ExportService {
	return &ExportService{
		evaluationRepo:    evaluationRepo,
		facilityRepo:      facilityRepo,
		userRepo:          userRepo,
		questionnaireRepo: questionnaireRepo,
		statsCache:        statsCache,
	}
}

// ListAssessments returns all evaluations with facility and user context,
// newest first
func (s *ExportService) ListAssessments(ctx context.Context) ([]AssessmentRow, error) {
	evaluations, err := s.evaluationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	facilities := map[string]string{}
	users := map[string]string{}

	rows := make([]AssessmentRow, 0, len(evaluations))
	for _, evaluation := range evaluations {
		row := AssessmentRow{
			Evaluation: evaluation,
			RiskLevel:  scoring.RiskLevel(evaluation.TotalScore),
		}
		row.FacilityName = s.facilityName(ctx, facilities, evaluation.FacilityID)
		row.UserEmail = s.userEmail(ctx, users, evaluation.UserID)
		rows = append(rows, row)
	}
	return rows, nil
}

// Stats returns the risk-bucket counts over all evaluations, cached for a
// few minutes and invalidated on every submission
func (s *ExportService) Stats(ctx context.Context) (*cache.RiskStats, error) {
	if cached, err := s.statsCache.Get(ctx); err != nil {
		log.Printf("stats cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	evaluations, err := s.evaluationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &cache.RiskStats{Total: len(evaluations), UpdatedAt: time.Now().UTC()}
	for _, evaluation := range evaluations {
		switch scoring.RiskLevel(evaluation.TotalScore) {
		case scoring.RiskLow:
			stats.Low++
		case scoring.RiskMedium:
			stats.Medium++
		default:
			stats.High++
		}
	}

	if err := s.statsCache.Set(ctx, stats); err != nil {
		log.Printf("stats cache write failed: %v", err)
	}
	return stats, nil
}

// ExportScores renders all evaluations as a semicolon-delimited CSV with one
// row per evaluation and one numbered score column per section, sized to the
// widest questionnaire in the export
func (s *ExportService) ExportScores(ctx context.Context) ([]byte, error) {
	evaluations, err := s.evaluationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	sectionCount := 0
	for _, evaluation := range evaluations {
		if n := len(evaluation.SectionScores); n > sectionCount {
			sectionCount = n
		}
	}

	buf, writer := newCSVBuffer()
	header := []string{"Facility", "User", "Date", "Total Score (%)", "Risk Level"}
	for i := 0; i < sectionCount; i++ {
		header = append(header, fmt.Sprintf("Section %d Score (%%)", i+1))
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	facilities := map[string]string{}
	users := map[string]string{}

	for _, evaluation := range evaluations {
		record := []string{
			s.facilityName(ctx, facilities, evaluation.FacilityID),
			s.userEmail(ctx, users, evaluation.UserID),
			evaluation.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1f", evaluation.TotalScore*100),
			string(scoring.RiskLevel(evaluation.TotalScore)),
		}
		// Section scores were frozen in questionnaire order at submit time.
		for _, ss := range evaluation.SectionScores {
			record = append(record, fmt.Sprintf("%.1f", ss.Score*100))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFull renders one CSV row per answered question across all
// evaluations, with resolved option texts
func (s *ExportService) ExportFull(ctx context.Context) ([]byte, error) {
	evaluations, err := s.evaluationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	buf, writer := newCSVBuffer()
	header := []string{"Facility", "User", "Date", "Section", "Question", "Answer", "Score"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	facilities := map[string]string{}
	users := map[string]string{}
	questionnaires := map[string]*model.Questionnaire{}

	for _, evaluation := range evaluations {
		questionnaire := s.questionnaire(ctx, questionnaires, evaluation.QuestionnaireID)
		if questionnaire == nil {
			continue
		}

		rows, err := s.evaluationRepo.GetAnswers(ctx, evaluation.ID)
		if err != nil {
			log.Printf("answers lookup failed for evaluation %s: %v", evaluation.ID, err)
			continue
		}
		answers := make(map[string]model.Answer, len(rows))
		for _, row := range rows {
			answers[row.QuestionID] = model.Answer{
				QuestionID:      row.QuestionID,
				SelectedOptions: row.SelectedOptions,
				TextAnswer:      row.TextAnswer,
			}
		}

		facilityName := s.facilityName(ctx, facilities, evaluation.FacilityID)
		userEmail := s.userEmail(ctx, users, evaluation.UserID)
		date := evaluation.CreatedAt.Format("2006-01-02 15:04")

		for _, line := range resolveAnswers(questionnaire, answers) {
			record := []string{
				facilityName,
				userEmail,
				date,
				line.SectionName,
				line.QuestionText,
				line.AnswerText,
				fmt.Sprintf("%.1f", line.Score),
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) questionnaire(ctx context.Context, cacheMap map[string]*model.Questionnaire, id string) *model.Questionnaire {
	if q, ok := cacheMap[id]; ok {
		return q
	}
	q, err := s.questionnaireRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("questionnaire lookup failed for %s: %v", id, err)
	}
	cacheMap[id] = q
	return q
}

func (s *ExportService) facilityName(ctx context.Context, cacheMap map[string]string, id string) string {
	if name, ok := cacheMap[id]; ok {
		return name
	}
	name := "Unknown facility"
	facility, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("facility lookup failed for %s: %v", id, err)
	} else if facility != nil {
		name = facility.Name
	}
	cacheMap[id] = name
	return name
}

func (s *ExportService) userEmail(ctx context.Context, cacheMap map[string]string, id string) string {
	if email, ok := cacheMap[id]; ok {
		return email
	}
	email := "unknown"
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("user lookup failed for %s: %v", id, err)
	} else if user != nil {
		email = user.Email
	}
	cacheMap[id] = email
	return email
}

// newCSVBuffer starts a semicolon-delimited CSV with a UTF-8 BOM so
// spreadsheet tools detect the encoding
func newCSVBuffer() (*bytes.Buffer, *csv.Writer) {
	buf := &bytes.Buffer{}
	buf.WriteString("\uFEFF")
	writer := csv.NewWriter(buf)
	writer.Comma = ';'
	return buf, writer
}
