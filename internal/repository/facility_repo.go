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

// FacilityRepo handles MongoDB operations for facilities
type FacilityRepo interface {
	Create(ctx context.Context, facility *model.Facility) (string, error)
	GetByID(ctx context.Context, id string) (*model.Facility, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.Facility, error)
	Update(ctx context.Context, facility *model.Facility) error
	Delete(ctx context.Context, id string) error
}

type facilityRepo struct {
	collection *mongo.Collection
}

// NewFacilityRepo creates a new facility repository
func NewFacilityRepo(db *mongo.Database) FacilityRepo {
	return &facilityRepo{
		collection: db.Collection("facilities"),
	}
}

func (r *facilityRepo) Create(ctx context.Context, facility *model.Facility) (string, error) {
	facility.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, facility)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *facilityRepo) GetByID(ctx context.Context, id string) (*model.Facility, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var facility model.Facility
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&facility)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	facility.ID = id
	return &facility, nil
}

func (r *facilityRepo) GetByUserID(ctx context.Context, userID string) ([]*model.Facility, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var facilities []*model.Facility
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *facilityRepo) Update(ctx context.Context, facility *model.Facility) error {
	oid, err := primitive.ObjectIDFromHex(facility.ID)
	if err != nil {
		return err
	}

	// The stored _id is an ObjectID; marshaling the hex string into the
	// replacement would alter the immutable _id and fail the write.
	facility.ID = ""
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, facility)
	facility.ID = oid.Hex()
	return err
}

func (r *facilityRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
