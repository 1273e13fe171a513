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

// QuestionnaireRepo handles MongoDB operations for questionnaires
type QuestionnaireRepo interface {
	Create(ctx context.Context, questionnaire *model.Questionnaire) (string, error)
	GetByID(ctx context.Context, id string) (*model.Questionnaire, error)
	GetActive(ctx context.Context) (*model.Questionnaire, error)
	List(ctx context.Context) ([]*model.Questionnaire, error)
	Update(ctx context.Context, questionnaire *model.Questionnaire) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string) error
}

type questionnaireRepo struct {
	collection *mongo.Collection
}

// NewQuestionnaireRepo creates a new questionnaire repository
func NewQuestionnaireRepo(db *mongo.Database) QuestionnaireRepo {
	return &questionnaireRepo{
		collection: db.Collection("questionnaires"),
	}
}

func (r *questionnaireRepo) Create(ctx context.Context, questionnaire *model.Questionnaire) (string, error) {
	questionnaire.CreatedAt = time.Now()
	questionnaire.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, questionnaire)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *questionnaireRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var questionnaire model.Questionnaire
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&questionnaire)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	questionnaire.ID = id
	return &questionnaire, nil
}

func (r *questionnaireRepo) GetActive(ctx context.Context) (*model.Questionnaire, error) {
	var questionnaire model.Questionnaire
	err := r.collection.FindOne(ctx, bson.M{"isActive": true}).Decode(&questionnaire)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (r *questionnaireRepo) List(ctx context.Context) ([]*model.Questionnaire, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questionnaires []*model.Questionnaire
	if err := cursor.All(ctx, &questionnaires); err != nil {
		return nil, err
	}
	return questionnaires, nil
}

func (r *questionnaireRepo) Update(ctx context.Context, questionnaire *model.Questionnaire) error {
	oid, err := primitive.ObjectIDFromHex(questionnaire.ID)
	if err != nil {
		return err
	}

	questionnaire.UpdatedAt = time.Now()

	// The stored _id is an ObjectID; marshaling the hex string into the
	// replacement would alter the immutable _id and fail the write.
	questionnaire.ID = ""
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, questionnaire)
	questionnaire.ID = oid.Hex()
	return err
}

func (r *questionnaireRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// SetActive marks one questionnaire active and deactivates every other,
// keeping the one-active invariant. The target is activated first so an
// unknown id fails with mongo.ErrNoDocuments before touching the rest.
func (r *questionnaireRepo) SetActive(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$ne": oid}},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	return err
}
