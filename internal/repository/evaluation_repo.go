package repository

import (
	"context"
	"time"

	"equisecure/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EvaluationRepo handles MongoDB operations for evaluations and their answers
type EvaluationRepo interface {
	Create(ctx context.Context, evaluation *model.Evaluation) (string, error)
	GetByID(ctx context.Context, id string) (*model.Evaluation, error)
	List(ctx context.Context) ([]*model.Evaluation, error)
	GetByFacilityID(ctx context.Context, facilityID string) ([]*model.Evaluation, error)
	GetLatestByFacilityID(ctx context.Context, facilityID string) (*model.Evaluation, error)
	UpdatePlanStatus(ctx context.Context, id string, status model.PlanStatus) error

	InsertAnswers(ctx context.Context, answers []model.EvaluationAnswer) error
	GetAnswers(ctx context.Context, evaluationID string) ([]model.EvaluationAnswer, error)
}

type evaluationRepo struct {
	evaluations *mongo.Collection
	answers     *mongo.Collection
}

// NewEvaluationRepo creates a new evaluation repository
func NewEvaluationRepo(db *mongo.Database) EvaluationRepo {
	return &evaluationRepo{
		evaluations: db.Collection("evaluations"),
		answers:     db.Collection("evaluation_answers"),
	}
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) (string, error) {
	evaluation.CreatedAt = time.Now()
	if evaluation.PlanStatus == "" {
		evaluation.PlanStatus = model.PlanNotGenerated
	}

	result, err := r.evaluations.InsertOne(ctx, evaluation)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.Evaluation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var evaluation model.Evaluation
	err = r.evaluations.FindOne(ctx, bson.M{"_id": oid}).Decode(&evaluation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	evaluation.ID = id
	return &evaluation, nil
}

func (r *evaluationRepo) List(ctx context.Context) ([]*model.Evaluation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.evaluations.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var evaluations []*model.Evaluation
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepo) GetByFacilityID(ctx context.Context, facilityID string) ([]*model.Evaluation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.evaluations.Find(ctx, bson.M{"facilityId": facilityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var evaluations []*model.Evaluation
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepo) GetLatestByFacilityID(ctx context.Context, facilityID string) (*model.Evaluation, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var evaluation model.Evaluation
	err := r.evaluations.FindOne(ctx, bson.M{"facilityId": facilityID}, opts).Decode(&evaluation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) UpdatePlanStatus(ctx context.Context, id string, status model.PlanStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.evaluations.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"planStatus": status}})
	return err
}

func (r *evaluationRepo) InsertAnswers(ctx context.Context, answers []model.EvaluationAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(answers))
	for i := range answers {
		answers[i].CreatedAt = time.Now()
		docs = append(docs, answers[i])
	}

	_, err := r.answers.InsertMany(ctx, docs)
	return err
}

func (r *evaluationRepo) GetAnswers(ctx context.Context, evaluationID string) ([]model.EvaluationAnswer, error) {
	cursor, err := r.answers.Find(ctx, bson.M{"evaluationId": evaluationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []model.EvaluationAnswer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
