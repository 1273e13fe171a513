package scoring

import (
	"math"
	"strings"

	"equisecure/internal/model"
)

// Recommendation flags a suboptimal answer and names the better practice
type Recommendation struct {
	QuestionID    string `json:"questionId"`
	QuestionText  string `json:"questionText"`
	SectionName   string `json:"sectionName"`
	CurrentAnswer string `json:"currentAnswer"`
	Advice        string `json:"advice"`
}

// BestPracticeScore is the minimum option score of a question. Lower score
// means lower risk, so the minimum marks the ideal practice. This is the
// inverse of QuestionRiskCeiling and the two are deliberately kept apart.
func BestPracticeScore(q *model.Question) float64 {
	minScore := math.MaxFloat64
	for _, opt := range q.Options {
		if opt.Score < minScore {
			minScore = opt.Score
		}
	}
	if minScore == math.MaxFloat64 {
		return 0
	}
	return minScore
}

// DeriveRecommendations walks the questionnaire in section then question
// order and emits one recommendation per answered, non-free-text question
// whose selection includes any option scoring above the best practice. A
// selection that sits at the minimum is never flagged, even when other
// minimum-score options were left unselected.
func DeriveRecommendations(questionnaire *model.Questionnaire, answers map[string]model.Answer) []Recommendation {
	recommendations := []Recommendation{}

	for i := range questionnaire.Sections {
		section := &questionnaire.Sections[i]
		for j := range section.Questions {
			question := &section.Questions[j]
			if question.Type == model.QuestionTypeFreeText {
				continue
			}

			answer, ok := answers[question.ID]
			if !ok {
				continue
			}

			minScore := BestPracticeScore(question)

			selected := []model.Option{}
			for _, optID := range answer.SelectedOptions {
				if opt := question.FindOption(optID); opt != nil {
					selected = append(selected, *opt)
				}
			}

			suboptimal := false
			for _, opt := range selected {
				if opt.Score > minScore {
					suboptimal = true
					break
				}
			}
			if !suboptimal {
				continue
			}

			currentAnswer := joinOptionTexts(selected, ", ")
			if currentAnswer == "" {
				currentAnswer = "No answer"
			}

			advice := question.ImprovementTip
			if advice == "" {
				best := []model.Option{}
				for _, opt := range question.Options {
					if opt.Score == minScore {
						best = append(best, opt)
					}
				}
				advice = "Consider implementing: " + joinOptionTexts(best, " or ")
			}

			recommendations = append(recommendations, Recommendation{
				QuestionID:    question.ID,
				QuestionText:  question.Text,
				SectionName:   section.Name,
				CurrentAnswer: currentAnswer,
				Advice:        advice,
			})
		}
	}

	return recommendations
}

func joinOptionTexts(options []model.Option, sep string) string {
	texts := make([]string, 0, len(options))
	for _, opt := range options {
		texts = append(texts, opt.Text)
	}
	return strings.Join(texts, sep)
}
