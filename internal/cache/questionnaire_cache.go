package cache

import (
	"context"
	"encoding/json"
	"time"

	"equisecure/internal/model"

	"github.com/redis/go-redis/v9"
)

// QuestionnaireCache keeps the active questionnaire tree in Redis so the
// evaluation screen does not hit Mongo on every load
type QuestionnaireCache interface {
	GetActive(ctx context.Context) (*model.Questionnaire, error)
	SetActive(ctx context.Context, questionnaire *model.Questionnaire) error
	InvalidateActive(ctx context.Context) error
}

type questionnaireCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuestionnaireCache creates a new questionnaire cache
func NewQuestionnaireCache(client *redis.Client) QuestionnaireCache {
	return &questionnaireCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *questionnaireCache) activeKey() string {
	return "questionnaire:active"
}

func (c *questionnaireCache) GetActive(ctx context.Context) (*model.Questionnaire, error) {
	data, err := c.client.Get(ctx, c.activeKey()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questionnaire model.Questionnaire
	if err := json.Unmarshal([]byte(data), &questionnaire); err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (c *questionnaireCache) SetActive(ctx context.Context, questionnaire *model.Questionnaire) error {
	data, err := json.Marshal(questionnaire)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.activeKey(), data, c.ttl).Err()
}

func (c *questionnaireCache) InvalidateActive(ctx context.Context) error {
	return c.client.Del(ctx, c.activeKey()).Err()
}
