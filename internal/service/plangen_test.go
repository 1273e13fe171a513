package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"equisecure/internal/config"
	"equisecure/internal/model"
	"equisecure/internal/scoring"
)

func TestPlanGenNotify(t *testing.T) {
	var got *PlanGenRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req PlanGenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		got = &req
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewPlanGenClient(&config.PlanGenConfig{
		WebhookURL: srv.URL,
		APIKey:     "secret-key",
		TimeoutMS:  2000,
	})
	if !client.IsEnabled() {
		t.Fatal("client with webhook URL should be enabled")
	}

	evaluation := &model.Evaluation{
		ID:              "eval-1",
		TotalScore:      0.4,
		SectionScores:   []model.SectionScoreEntry{{SectionID: "sec-1", Score: 0.4}},
		QuestionnaireID: "questionnaire-1",
	}
	facility := &model.Facility{ID: "facility-1", Name: "Oak Stables", Region: "Normandy"}
	questionnaire := &model.Questionnaire{
		ID:       "questionnaire-1",
		Sections: []model.Section{{ID: "sec-1", Name: "Daily Practices"}},
	}
	recommendations := []scoring.Recommendation{{QuestionID: "q1", Advice: "do better"}}

	req := BuildRequest("job-1", evaluation, facility, questionnaire, recommendations)
	if err := client.Notify(context.Background(), req); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if got == nil {
		t.Fatal("no payload received")
	}
	if got.JobID != "job-1" || got.EvaluationID != "eval-1" {
		t.Errorf("ids = %s/%s", got.JobID, got.EvaluationID)
	}
	if got.FacilityName != "Oak Stables" {
		t.Errorf("facility = %q", got.FacilityName)
	}
	if len(got.Sections) != 1 || got.Sections[0].SectionName != "Daily Practices" {
		t.Errorf("sections = %+v", got.Sections)
	}
	if got.RiskLevel != string(scoring.RiskMedium) {
		t.Errorf("risk = %q, want %q", got.RiskLevel, scoring.RiskMedium)
	}
	if len(got.Recommendations) != 1 {
		t.Errorf("recommendations = %d, want 1", len(got.Recommendations))
	}
}

func TestPlanGenNotifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPlanGenClient(&config.PlanGenConfig{WebhookURL: srv.URL, TimeoutMS: 2000})

	req := BuildRequest("job-1", &model.Evaluation{ID: "eval-1"}, &model.Facility{Name: "x"}, &model.Questionnaire{}, nil)
	if err := client.Notify(context.Background(), req); err == nil {
		t.Error("non-2xx response should surface an error")
	}
}
