// Package scoring computes biosecurity risk scores for questionnaire
// evaluations. Higher scores mean higher risk; all functions are pure and
// safe to recompute on every answer change.
package scoring

import "equisecure/internal/model"

// SectionScore is the live result for one section
type SectionScore struct {
	SectionID  string  `json:"sectionId"`
	Current    float64 `json:"current"`
	Max        float64 `json:"max"`
	Percentage float64 `json:"percentage"`
}

// TotalScore aggregates all sections
type TotalScore struct {
	Current    float64 `json:"current"`
	Max        float64 `json:"max"`
	Percentage float64 `json:"percentage"`
}

// QuestionRiskCeiling is the achievable maximum risk contribution of a
// question. Single-select: the highest option score, floored at 0 so a
// question whose options are all penalties cannot make the section maximum
// negative. Multi-select: the sum of strictly positive option scores, since
// an ideal respondent would not select zero or negative options. Free-text
// questions never score.
//
// This is the ceiling for the risk percentage; it is NOT the "best" answer.
// See BestPracticeScore for that inverse notion.
func QuestionRiskCeiling(q *model.Question) float64 {
	switch q.Type {
	case model.QuestionTypeSingleSelect:
		maxScore := 0.0
		for _, opt := range q.Options {
			if opt.Score > maxScore {
				maxScore = opt.Score
			}
		}
		return maxScore
	case model.QuestionTypeMultiSelect:
		sum := 0.0
		for _, opt := range q.Options {
			if opt.Score > 0 {
				sum += opt.Score
			}
		}
		return sum
	default:
		return 0
	}
}

// QuestionCurrentScore is the realized risk contribution of a question given
// its answer. Single-select uses the one selected option; multi-select sums
// every selected option, negatives included. A nil answer contributes 0.
func QuestionCurrentScore(q *model.Question, answer *model.Answer) float64 {
	if answer == nil || q.Type == model.QuestionTypeFreeText {
		return 0
	}

	switch q.Type {
	case model.QuestionTypeSingleSelect:
		for _, optID := range answer.SelectedOptions {
			if opt := q.FindOption(optID); opt != nil {
				return opt.Score
			}
		}
		return 0
	case model.QuestionTypeMultiSelect:
		sum := 0.0
		for _, optID := range answer.SelectedOptions {
			if opt := q.FindOption(optID); opt != nil {
				sum += opt.Score
			}
		}
		return sum
	default:
		return 0
	}
}

// ComputeSections scores every section of the questionnaire against the
// answer set, keyed by question id. The current sum is clamped to 0 after
// aggregation: multi-select penalties can drive individual questions
// negative, but a section's reported score never is. The maximum needs no
// clamp; it is non-negative by construction.
func ComputeSections(questionnaire *model.Questionnaire, answers map[string]model.Answer) []SectionScore {
	scores := make([]SectionScore, 0, len(questionnaire.Sections))

	for i := range questionnaire.Sections {
		section := &questionnaire.Sections[i]
		current := 0.0
		maxScore := 0.0

		for j := range section.Questions {
			question := &section.Questions[j]
			maxScore += QuestionRiskCeiling(question)

			if answer, ok := answers[question.ID]; ok {
				current += QuestionCurrentScore(question, &answer)
			}
		}

		if current < 0 {
			current = 0
		}

		scores = append(scores, SectionScore{
			SectionID:  section.ID,
			Current:    current,
			Max:        maxScore,
			Percentage: percentage(current, maxScore),
		})
	}

	return scores
}

// ComputeTotal sums already-clamped section scores
func ComputeTotal(sections []SectionScore) TotalScore {
	total := TotalScore{}
	for _, s := range sections {
		total.Current += s.Current
		total.Max += s.Max
	}
	total.Percentage = percentage(total.Current, total.Max)
	return total
}

// Fraction converts a score pair to the 0..1 fraction persisted on
// evaluations. Zero max yields 0, not NaN.
func Fraction(current, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return current / max
}

func percentage(current, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return current / max * 100
}
