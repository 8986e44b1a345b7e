package payroll

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

func (s *MongoStore) Create(ctx context.Context, rec Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	total, err := s.coll.CountDocuments(ctx, bson.D{})
	return int(total), err
}

func (s *MongoStore) List(ctx context.Context, limit, offset int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, rec Record, expectedVersion int) (int, error) {
	filter := bson.D{{Key: "_id", Value: rec.ID}}
	if expectedVersion != 0 {
		filter = append(filter, bson.E{Key: "version", Value: expectedVersion})
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "month", Value: rec.Month},
			{Key: "year", Value: rec.Year},
			{Key: "employees", Value: rec.Employees},
			{Key: "attendance", Value: rec.Attendance},
			{Key: "earnings", Value: rec.Earnings},
			{Key: "deductions", Value: rec.Deductions},
			{Key: "net_salary", Value: rec.NetSalary},
			{Key: "total_days", Value: rec.TotalDays},
			{Key: "paid_days", Value: rec.PaidDays},
			{Key: "lop_days", Value: rec.LopDays},
			{Key: "arrear_days", Value: rec.ArrearDays},
			{Key: "pan_no", Value: rec.PanNo},
			{Key: "uan_no", Value: rec.UanNo},
			{Key: "pf_no", Value: rec.PfNo},
			{Key: "esi_no", Value: rec.EsiNo},
			{Key: "bank_name", Value: rec.BankName},
			{Key: "account_no", Value: rec.AccountNo},
			{Key: "warnings", Value: rec.Warnings},
			{Key: "updated_at", Value: rec.UpdatedAt},
		}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}
	var updated Record
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if expectedVersion == 0 {
			return 0, ErrRecordNotFound
		}
		if _, getErr := s.Get(ctx, rec.ID); getErr != nil {
			return 0, getErr
		}
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	return updated.Version, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
