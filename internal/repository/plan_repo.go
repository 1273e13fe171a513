package repository

import (
	"context"
	"time"

	"equisecure/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlanRepo handles MongoDB operations for remediation plans. Plans are keyed
// by evaluation id, one plan per evaluation.
type PlanRepo interface {
	Upsert(ctx context.Context, plan *model.Plan) error
	GetByEvaluationID(ctx context.Context, evaluationID string) (*model.Plan, error)
	UpdateStatus(ctx context.Context, evaluationID string, status model.PlanStatus) error
	UpdateContent(ctx context.Context, evaluationID, content string) error
}

type planRepo struct {
	collection *mongo.Collection
}

// NewPlanRepo creates a new plan repository
func NewPlanRepo(db *mongo.Database) PlanRepo {
	return &planRepo{
		collection: db.Collection("plans"),
	}
}

func (r *planRepo) Upsert(ctx context.Context, plan *model.Plan) error {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	plan.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"evaluationId": plan.EvaluationID}, plan, opts)
	return err
}

func (r *planRepo) GetByEvaluationID(ctx context.Context, evaluationID string) (*model.Plan, error) {
	var plan model.Plan
	err := r.collection.FindOne(ctx, bson.M{"evaluationId": evaluationID}).Decode(&plan)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) UpdateStatus(ctx context.Context, evaluationID string, status model.PlanStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"evaluationId": evaluationID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	return err
}

func (r *planRepo) UpdateContent(ctx context.Context, evaluationID, content string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"evaluationId": evaluationID},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}})
	return err
}
