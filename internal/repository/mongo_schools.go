package repository

import (
	"context"
	"fmt"
	"time"

	"school-service/internal/model"
	"school-service/prometheus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const SchoolsCollection = "schools"

type MongoSchoolRepository struct {
	coll *mongo.Collection
}

func NewMongoSchoolRepository(db *mongo.Database) *MongoSchoolRepository {
	return &MongoSchoolRepository{coll: db.Collection(SchoolsCollection)}
}

func (r *MongoSchoolRepository) Create(ctx context.Context, school *model.School) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if _, err := r.coll.InsertOne(ctx, school); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert school %s: %w", school.ID.Hex(), ErrDuplicate)
		}
		return fmt.Errorf("insert school: %w", err)
	}
	return nil
}

func (r *MongoSchoolRepository) List(ctx context.Context) ([]model.School, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find schools: %w", err)
	}

	schools := []model.School{}
	if err := cur.All(ctx, &schools); err != nil {
		return nil, fmt.Errorf("decode schools: %w", err)
	}
	return schools, nil
}
