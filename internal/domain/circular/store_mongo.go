package circular

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

func (s *MongoStore) Create(ctx context.Context, c Circular) error {
	c.Departments, c.EmployeeIDs = nonNil(c.Departments), nonNil(c.EmployeeIDs)
	_, err := s.coll.InsertOne(ctx, c)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (Circular, error) {
	var c Circular
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Circular{}, ErrCircularNotFound
	}
	return c, err
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	return int(n), err
}

func (s *MongoStore) List(ctx context.Context, limit, offset int) ([]Circular, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var out []Circular
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, c Circular) error {
	c.Departments, c.EmployeeIDs = nonNil(c.Departments), nonNil(c.EmployeeIDs)
	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCircularNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCircularNotFound
	}
	return nil
}
