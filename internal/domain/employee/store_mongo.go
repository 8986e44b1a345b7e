package employee

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Create(ctx context.Context, emp Employee) error {
	_, err := s.coll.InsertOne(ctx, emp)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (Employee, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) GetByCode(ctx context.Context, code string) (Employee, error) {
	return s.findOne(ctx, bson.D{{Key: "employee_code", Value: code}})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (Employee, error) {
	var emp Employee
	err := s.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	total, err := s.coll.CountDocuments(ctx, bson.D{})
	return int(total), err
}

func (s *MongoStore) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var out []Employee
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, emp Employee) error {
	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: emp.ID}}, emp)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
