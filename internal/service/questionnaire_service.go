package service

import (
	"context"
	"errors"
	"log"
	"sort"

	"equisecure/internal/cache"
	"equisecure/internal/model"
	"equisecure/internal/repository"
	"equisecure/internal/scoring"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrNoActiveQuestionnaire = errors.New("no active questionnaire")
)

// QuestionnaireService handles questionnaire authoring and activation
type QuestionnaireService struct {
	questionnaireRepo  repository.QuestionnaireRepo
	questionnaireCache cache.QuestionnaireCache
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(questionnaireRepo repository.QuestionnaireRepo, questionnaireCache cache.QuestionnaireCache) *QuestionnaireService {
	return &QuestionnaireService{
		questionnaireRepo:  questionnaireRepo,
		questionnaireCache: questionnaireCache,
	}
}

// Create normalizes and stores a new questionnaire
func (s *QuestionnaireService) Create(ctx context.Context, questionnaire *model.Questionnaire) (string, error) {
	normalize(questionnaire)
	return s.questionnaireRepo.Create(ctx, questionnaire)
}

// GetByID retrieves a questionnaire by id
func (s *QuestionnaireService) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	return s.questionnaireRepo.GetByID(ctx, id)
}

// GetActive returns the single active questionnaire, cache-first. Returns
// ErrNoActiveQuestionnaire when none is active; callers surface that as a
// terminal state, never an empty form.
func (s *QuestionnaireService) GetActive(ctx context.Context) (*model.Questionnaire, error) {
	if cached, err := s.questionnaireCache.GetActive(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("questionnaire cache read failed: %v", err)
	}

	questionnaire, err := s.questionnaireRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if questionnaire == nil {
		return nil, ErrNoActiveQuestionnaire
	}

	if err := s.questionnaireCache.SetActive(ctx, questionnaire); err != nil {
		log.Printf("questionnaire cache write failed: %v", err)
	}
	return questionnaire, nil
}

// List returns all questionnaires, newest first
func (s *QuestionnaireService) List(ctx context.Context) ([]*model.Questionnaire, error) {
	return s.questionnaireRepo.List(ctx)
}

// Update normalizes and replaces a questionnaire, bumping its version
func (s *QuestionnaireService) Update(ctx context.Context, questionnaire *model.Questionnaire) error {
	existing, err := s.questionnaireRepo.GetByID(ctx, questionnaire.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrQuestionnaireNotFound
	}

	normalize(questionnaire)
	questionnaire.Version = existing.Version + 1
	questionnaire.IsActive = existing.IsActive
	questionnaire.CreatedAt = existing.CreatedAt

	if err := s.questionnaireRepo.Update(ctx, questionnaire); err != nil {
		return err
	}

	if questionnaire.IsActive {
		if err := s.questionnaireCache.InvalidateActive(ctx); err != nil {
			log.Printf("questionnaire cache invalidate failed: %v", err)
		}
	}
	return nil
}

// Delete removes a questionnaire
func (s *QuestionnaireService) Delete(ctx context.Context, id string) error {
	if err := s.questionnaireRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.questionnaireCache.InvalidateActive(ctx); err != nil {
		log.Printf("questionnaire cache invalidate failed: %v", err)
	}
	return nil
}

// Activate makes a questionnaire the active one, deactivating all others
func (s *QuestionnaireService) Activate(ctx context.Context, id string) error {
	if err := s.questionnaireRepo.SetActive(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrQuestionnaireNotFound
		}
		return err
	}
	if err := s.questionnaireCache.InvalidateActive(ctx); err != nil {
		log.Printf("questionnaire cache invalidate failed: %v", err)
	}
	return nil
}

// normalize assigns missing ids, sorts the tree by order index, and
// recomputes every stored question maximum from its options so the stored
// value always agrees with the scoring engine.
func normalize(questionnaire *model.Questionnaire) {
	if questionnaire.Version == 0 {
		questionnaire.Version = 1
	}

	sort.SliceStable(questionnaire.Sections, func(i, j int) bool {
		return questionnaire.Sections[i].OrderIndex < questionnaire.Sections[j].OrderIndex
	})

	for i := range questionnaire.Sections {
		section := &questionnaire.Sections[i]
		if section.ID == "" {
			section.ID = uuid.New().String()
		}
		section.OrderIndex = i

		sort.SliceStable(section.Questions, func(a, b int) bool {
			return section.Questions[a].OrderIndex < section.Questions[b].OrderIndex
		})

		for j := range section.Questions {
			question := &section.Questions[j]
			if question.ID == "" {
				question.ID = uuid.New().String()
			}
			question.OrderIndex = j

			if question.Type == model.QuestionTypeFreeText {
				question.Options = nil
			}

			sort.SliceStable(question.Options, func(a, b int) bool {
				return question.Options[a].OrderIndex < question.Options[b].OrderIndex
			})
			for k := range question.Options {
				if question.Options[k].ID == "" {
					question.Options[k].ID = uuid.New().String()
				}
				question.Options[k].OrderIndex = k
			}

			question.MaxScore = scoring.QuestionRiskCeiling(question)
		}
	}
}
