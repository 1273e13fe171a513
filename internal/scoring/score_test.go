package scoring

import (
	"testing"

	"equisecure/internal/model"
)

func singleSelect(id string, scores ...float64) model.Question {
	q := model.Question{ID: id, Text: "q-" + id, Type: model.QuestionTypeSingleSelect}
	for i, s := range scores {
		q.Options = append(q.Options, model.Option{
			ID:         id + "-opt-" + string(rune('a'+i)),
			Text:       "option " + string(rune('A'+i)),
			Score:      s,
			OrderIndex: i,
		})
	}
	return q
}

func multiSelect(id string, scores ...float64) model.Question {
	q := singleSelect(id, scores...)
	q.Type = model.QuestionTypeMultiSelect
	return q
}

func TestQuestionRiskCeiling(t *testing.T) {
	tests := []struct {
		name     string
		question model.Question
		want     float64
	}{
		{
			name:     "single-select takes highest option",
			question: singleSelect("q1", -2, 0, 3),
			want:     3,
		},
		{
			name:     "single-select all negative floors at zero",
			question: singleSelect("q1", -5, -1, -3),
			want:     0,
		},
		{
			name:     "multi-select sums positive options only",
			question: multiSelect("q1", 2, -1, 5, 0),
			want:     7,
		},
		{
			name:     "free-text never scores",
			question: model.Question{ID: "q1", Type: model.QuestionTypeFreeText},
			want:     0,
		},
		{
			name:     "single-select with no options",
			question: model.Question{ID: "q1", Type: model.QuestionTypeSingleSelect},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuestionRiskCeiling(&tt.question); got != tt.want {
				t.Errorf("QuestionRiskCeiling() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestionCurrentScore(t *testing.T) {
	single := singleSelect("q1", -2, 0, 3)
	multi := multiSelect("q2", 2, -1, 5, 0)

	tests := []struct {
		name     string
		question *model.Question
		answer   *model.Answer
		want     float64
	}{
		{
			name:     "unanswered contributes zero",
			question: &single,
			answer:   nil,
			want:     0,
		},
		{
			name:     "single-select uses selected option score",
			question: &single,
			answer:   &model.Answer{QuestionID: "q1", SelectedOptions: []string{"q1-opt-a"}},
			want:     -2,
		},
		{
			name:     "multi-select sums all selections including negatives",
			question: &multi,
			answer: &model.Answer{QuestionID: "q2", SelectedOptions: []string{
				"q2-opt-a", "q2-opt-b", "q2-opt-c", "q2-opt-d",
			}},
			want: 6,
		},
		{
			name:     "unknown option ids are ignored",
			question: &multi,
			answer:   &model.Answer{QuestionID: "q2", SelectedOptions: []string{"missing"}},
			want:     0,
		},
		{
			name:     "free-text never contributes",
			question: &model.Question{ID: "q3", Type: model.QuestionTypeFreeText},
			answer:   &model.Answer{QuestionID: "q3", TextAnswer: "notes"},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuestionCurrentScore(tt.question, tt.answer); got != tt.want {
				t.Errorf("QuestionCurrentScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeSectionsFreeTextOnly(t *testing.T) {
	questionnaire := &model.Questionnaire{
		Sections: []model.Section{
			{
				ID: "s1",
				Questions: []model.Question{
					{ID: "q1", Type: model.QuestionTypeFreeText},
					{ID: "q2", Type: model.QuestionTypeFreeText},
				},
			},
		},
	}
	answers := map[string]model.Answer{
		"q1": {QuestionID: "q1", TextAnswer: "some notes"},
	}

	sections := ComputeSections(questionnaire, answers)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section score, got %d", len(sections))
	}
	if sections[0].Max != 0 || sections[0].Current != 0 || sections[0].Percentage != 0 {
		t.Errorf("free-text section should score 0/0/0%%, got %+v", sections[0])
	}

	total := ComputeTotal(sections)
	if total.Percentage != 0 {
		t.Errorf("total percentage must be 0 with zero max, got %v", total.Percentage)
	}
}

func TestComputeSectionsClampsNegativeSection(t *testing.T) {
	// One multi-select question where the user selects only penalties
	q := multiSelect("q1", 2, -3, -4)
	questionnaire := &model.Questionnaire{
		Sections: []model.Section{{ID: "s1", Questions: []model.Question{q}}},
	}
	answers := map[string]model.Answer{
		"q1": {QuestionID: "q1", SelectedOptions: []string{"q1-opt-b", "q1-opt-c"}},
	}

	sections := ComputeSections(questionnaire, answers)
	if sections[0].Current != 0 {
		t.Errorf("section current must clamp to 0, got %v", sections[0].Current)
	}
	if sections[0].Max != 2 {
		t.Errorf("section max = %v, want 2", sections[0].Max)
	}
}

func TestComputeSectionsEmptyQuestionnaire(t *testing.T) {
	sections := ComputeSections(&model.Questionnaire{}, nil)
	if len(sections) != 0 {
		t.Fatalf("expected no section scores, got %d", len(sections))
	}
	total := ComputeTotal(sections)
	if total.Current != 0 || total.Max != 0 || total.Percentage != 0 {
		t.Errorf("empty questionnaire total = %+v, want zeros", total)
	}
}

// End-to-end scenario: two sections, a single-select pick and a mixed
// multi-select pick, checked at every aggregation level.
func TestComputeTotalScenario(t *testing.T) {
	s1q := singleSelect("q1", 0, 1, 2)
	s2q := multiSelect("q2", 0, 3, -1)
	questionnaire := &model.Questionnaire{
		Sections: []model.Section{
			{ID: "s1", Name: "Access Control", Questions: []model.Question{s1q}},
			{ID: "s2", Name: "Quarantine", Questions: []model.Question{s2q}},
		},
	}
	answers := map[string]model.Answer{
		"q1": {QuestionID: "q1", SelectedOptions: []string{"q1-opt-b"}},
		"q2": {QuestionID: "q2", SelectedOptions: []string{"q2-opt-a", "q2-opt-b"}},
	}

	sections := ComputeSections(questionnaire, answers)
	if len(sections) != 2 {
		t.Fatalf("expected 2 section scores, got %d", len(sections))
	}

	if sections[0].Max != 2 || sections[0].Current != 1 || sections[0].Percentage != 50 {
		t.Errorf("section 1 = %+v, want max=2 current=1 pct=50", sections[0])
	}
	if sections[1].Max != 3 || sections[1].Current != 3 || sections[1].Percentage != 100 {
		t.Errorf("section 2 = %+v, want max=3 current=3 pct=100", sections[1])
	}

	total := ComputeTotal(sections)
	if total.Max != 5 || total.Current != 4 || total.Percentage != 80 {
		t.Errorf("total = %+v, want max=5 current=4 pct=80", total)
	}

	if f := Fraction(total.Current, total.Max); f != 0.8 {
		t.Errorf("Fraction() = %v, want 0.8", f)
	}
}

func TestFractionZeroMax(t *testing.T) {
	if f := Fraction(5, 0); f != 0 {
		t.Errorf("Fraction(5, 0) = %v, want 0", f)
	}
}
