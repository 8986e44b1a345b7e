package leave

import (
	"context"
	"errors"
	"time"

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

func (s *MongoStore) Create(ctx context.Context, rec Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrLeaveNotFound
	}
	return rec, err
}

func (s *MongoStore) ListByEmployee(ctx context.Context, employeeCode string) ([]Record, error) {
	return s.find(ctx, bson.D{{Key: "employee_code", Value: employeeCode}}, bson.D{{Key: "start_date", Value: -1}})
}

func (s *MongoStore) ListForMonth(ctx context.Context, employeeCode, month string, year int) ([]Record, error) {
	filter := bson.D{
		{Key: "employee_code", Value: employeeCode},
		{Key: "month", Value: month},
		{Key: "year", Value: year},
	}
	return s.find(ctx, filter, bson.D{{Key: "start_date", Value: 1}})
}

func (s *MongoStore) ListOnDate(ctx context.Context, day time.Time) ([]Record, error) {
	day = CalendarDate(day)
	filter := bson.D{
		{Key: "start_date", Value: bson.D{{Key: "$lte", Value: day}}},
		{Key: "end_date", Value: bson.D{{Key: "$gte", Value: day}}},
	}
	return s.find(ctx, filter, bson.D{{Key: "employee_code", Value: 1}})
}

func (s *MongoStore) find(ctx context.Context, filter, sort bson.D) ([]Record, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrLeaveNotFound
	}
	return nil
}
