package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"equisecure/internal/config"
	"equisecure/internal/model"
	"equisecure/internal/scoring"
)

// PlanGenClient calls the external remediation-plan generation service.
// Notification is best effort: submission never fails because of it.
type PlanGenClient struct {
	config *config.PlanGenConfig
	client *http.Client
}

// NewPlanGenClient creates a new plan-generation client
func NewPlanGenClient(cfg *config.PlanGenConfig) *PlanGenClient {
	return &PlanGenClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// PlanGenSection is one section summary in the outbound payload
type PlanGenSection struct {
	SectionID   string  `json:"sectionId"`
	SectionName string  `json:"sectionName"`
	Score       float64 `json:"score"` // 0..1 fraction
}

// PlanGenRequest is the typed payload sent to the generation service. Every
// field is declared here rather than assembled into a loose map, so the
// contract is checked at compile time.
type PlanGenRequest struct {
	JobID           string                   `json:"jobId"`
	EvaluationID    string                   `json:"evaluationId"`
	FacilityName    string                   `json:"facilityName"`
	FacilityRegion  string                   `json:"facilityRegion,omitempty"`
	FacilityType    string                   `json:"facilityType,omitempty"`
	TotalScore      float64                  `json:"totalScore"` // 0..1 fraction
	RiskLevel       string                   `json:"riskLevel"`
	Sections        []PlanGenSection         `json:"sections"`
	Recommendations []scoring.Recommendation `json:"recommendations"`
	SubmittedAt     time.Time                `json:"submittedAt"`
}

// IsEnabled reports whether the webhook is configured
func (c *PlanGenClient) IsEnabled() bool {
	return c.config.IsEnabled()
}

// Notify posts the evaluation summary to the generation webhook. Errors are
// returned for logging only; callers must not fail the submission on them.
func (c *PlanGenClient) Notify(ctx context.Context, req *PlanGenRequest) error {
	if !c.config.IsEnabled() {
		return nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("plan generation webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// BuildRequest assembles the outbound payload from an evaluation and its
// context
func BuildRequest(jobID string, evaluation *model.Evaluation, facility *model.Facility, questionnaire *model.Questionnaire, recommendations []scoring.Recommendation) *PlanGenRequest {
	sections := make([]PlanGenSection, 0, len(evaluation.SectionScores))
	for _, ss := range evaluation.SectionScores {
		name := ""
		if section := questionnaire.FindSection(ss.SectionID); section != nil {
			name = section.Name
		}
		sections = append(sections, PlanGenSection{
			SectionID:   ss.SectionID,
			SectionName: name,
			Score:       ss.Score,
		})
	}

	return &PlanGenRequest{
		JobID:           jobID,
		EvaluationID:    evaluation.ID,
		FacilityName:    facility.Name,
		FacilityRegion:  facility.Region,
		FacilityType:    facility.Type,
		TotalScore:      evaluation.TotalScore,
		RiskLevel:       string(scoring.ReportRiskLevel(evaluation.TotalScore)),
		Sections:        sections,
		Recommendations: recommendations,
		SubmittedAt:     evaluation.CreatedAt,
	}
}
