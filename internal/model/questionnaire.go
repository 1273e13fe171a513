package model

import "time"

// QuestionType defines how a question is answered and scored
type QuestionType string

const (
	QuestionTypeSingleSelect QuestionType = "multiple_choice" // radio group, one option
	QuestionTypeMultiSelect  QuestionType = "checkbox"        // checkboxes, any number of options
	QuestionTypeFreeText     QuestionType = "text"            // free text, never scored
)

// Questionnaire is the authored template an evaluation runs against.
// At most one questionnaire is active at a time; activation is enforced
// by QuestionnaireService, not here.
type Questionnaire struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Version   int       `json:"version" bson:"version"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	Sections  []Section `json:"sections" bson:"sections"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Section groups questions; its order index drives display and export order
type Section struct {
	ID         string     `json:"id" bson:"id"`
	Name       string     `json:"name" bson:"name"`
	OrderIndex int        `json:"orderIndex" bson:"orderIndex"`
	Questions  []Question `json:"questions" bson:"questions"`
}

// Question belongs to a section. Options are absent for free-text questions.
// MaxScore is the stored risk ceiling; QuestionnaireService recomputes it from
// the options on every write so it always matches the scoring engine's rule.
type Question struct {
	ID             string       `json:"id" bson:"id"`
	Text           string       `json:"text" bson:"text"`
	Type           QuestionType `json:"type" bson:"type"`
	OrderIndex     int          `json:"orderIndex" bson:"orderIndex"`
	MaxScore       float64      `json:"maxScore" bson:"maxScore"`
	ImprovementTip string       `json:"improvementTip,omitempty" bson:"improvementTip,omitempty"`
	Options        []Option     `json:"options,omitempty" bson:"options,omitempty"`
}

// Option is one selectable choice. Score may be negative, zero, or positive;
// higher score means higher biosecurity risk.
type Option struct {
	ID         string  `json:"id" bson:"id"`
	Text       string  `json:"text" bson:"text"`
	Score      float64 `json:"score" bson:"score"`
	OrderIndex int     `json:"orderIndex" bson:"orderIndex"`
}

// FindSection returns the section with the given id, or nil
func (q *Questionnaire) FindSection(sectionID string) *Section {
	for i := range q.Sections {
		if q.Sections[i].ID == sectionID {
			return &q.Sections[i]
		}
	}
	return nil
}

// FindQuestion returns the question with the given id, or nil
func (q *Questionnaire) FindQuestion(questionID string) *Question {
	for i := range q.Sections {
		for j := range q.Sections[i].Questions {
			if q.Sections[i].Questions[j].ID == questionID {
				return &q.Sections[i].Questions[j]
			}
		}
	}
	return nil
}

// FindOption returns the option with the given id, or nil
func (q *Question) FindOption(optionID string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}
