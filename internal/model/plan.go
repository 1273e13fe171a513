package model

import "time"

// PlanStatus is the lifecycle of an externally generated remediation plan
type PlanStatus string

const (
	PlanNotGenerated PlanStatus = "not_generated"
	PlanGenerating   PlanStatus = "generating"
	PlanDraft        PlanStatus = "draft"
	PlanPublished    PlanStatus = "published"
)

// Plan is the remediation document attached to an evaluation. Content arrives
// from the external generation service as markdown; admins edit the draft and
// publish it.
type Plan struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	EvaluationID string     `json:"evaluationId" bson:"evaluationId"`
	Status       PlanStatus `json:"status" bson:"status"`
	Content      string     `json:"content,omitempty" bson:"content,omitempty"`
	JobID        string     `json:"jobId,omitempty" bson:"jobId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// PlanStatusUpdate is pushed to admin WebSocket subscribers when a watched
// plan leaves the generating state
type PlanStatusUpdate struct {
	EvaluationID string     `json:"evaluationId"`
	Status       PlanStatus `json:"status"`
}
