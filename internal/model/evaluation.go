package model

import "time"

// Answer is the in-session response to one question. It is held by the client
// until submission and persisted only as an EvaluationAnswer.
type Answer struct {
	QuestionID      string   `json:"questionId" bson:"questionId"`
	SelectedOptions []string `json:"selectedOptions" bson:"selectedOptions"`
	TextAnswer      string   `json:"textAnswer,omitempty" bson:"textAnswer,omitempty"`
}

// SectionScoreEntry is the frozen per-section result stored on an evaluation.
// Score is a 0..1 fraction of the section's achievable maximum.
type SectionScoreEntry struct {
	SectionID string  `json:"sectionId" bson:"sectionId"`
	Score     float64 `json:"score" bson:"score"`
}

// Evaluation is a completed questionnaire run for a facility. Immutable once
// created except for the attached plan status, which PlanService manages.
type Evaluation struct {
	ID              string              `json:"id" bson:"_id,omitempty"`
	FacilityID      string              `json:"facilityId" bson:"facilityId"`
	QuestionnaireID string              `json:"questionnaireId" bson:"questionnaireId"`
	UserID          string              `json:"userId" bson:"userId"`
	TotalScore      float64             `json:"totalScore" bson:"totalScore"` // 0..1 fraction
	SectionScores   []SectionScoreEntry `json:"sectionScores" bson:"sectionScores"`
	PlanStatus      PlanStatus          `json:"planStatus" bson:"planStatus"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
}

// EvaluationAnswer is a persisted answer row attached to an evaluation
type EvaluationAnswer struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	EvaluationID    string    `json:"evaluationId" bson:"evaluationId"`
	QuestionID      string    `json:"questionId" bson:"questionId"`
	SelectedOptions []string  `json:"selectedOptions,omitempty" bson:"selectedOptions,omitempty"`
	TextAnswer      string    `json:"textAnswer,omitempty" bson:"textAnswer,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}
