package audit

import (
	"context"
	"encoding/json"
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

// eventDoc keeps the before/after snapshots as JSON text.
type eventDoc struct {
	ID         string    `bson:"_id"`
	ActorID    string    `bson:"actor_user_id"`
	Action     string    `bson:"action"`
	EntityType string    `bson:"entity_type"`
	EntityID   string    `bson:"entity_id"`
	RequestID  string    `bson:"request_id"`
	IP         string    `bson:"ip"`
	CreatedAt  time.Time `bson:"created_at"`
	Before     string    `bson:"before_json,omitempty"`
	After      string    `bson:"after_json,omitempty"`
}

func (s *MongoStore) Insert(ctx context.Context, evt Event) error {
	_, err := s.coll.InsertOne(ctx, eventDoc{
		ID: evt.ID, ActorID: evt.ActorID, Action: evt.Action, EntityType: evt.EntityType, EntityID: evt.EntityID,
		RequestID: evt.RequestID, IP: evt.IP, CreatedAt: evt.CreatedAt, Before: string(evt.Before), After: string(evt.After),
	})
	return err
}

func (s *MongoStore) Count(ctx context.Context, filter Filter) (int, error) {
	total, err := s.coll.CountDocuments(ctx, mongoFilter(filter))
	return int(total), err
}

func (s *MongoStore) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(docs))
	for _, doc := range docs {
		evt := Event{
			ID: doc.ID, ActorID: doc.ActorID, Action: doc.Action, EntityType: doc.EntityType, EntityID: doc.EntityID,
			RequestID: doc.RequestID, IP: doc.IP, CreatedAt: doc.CreatedAt,
		}
		if includeDetails {
			evt.Before = rawOrNil(doc.Before)
			evt.After = rawOrNil(doc.After)
		}
		out = append(out, evt)
	}
	return out, nil
}

func mongoFilter(filter Filter) bson.D {
	out := bson.D{}
	for key, value := range map[string]string{
		"action":        filter.Action,
		"entity_type":   filter.EntityType,
		"entity_id":     filter.EntityID,
		"actor_user_id": filter.ActorUser,
	} {
		if value != "" {
			out = append(out, bson.E{Key: key, Value: value})
		}
	}
	return out
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
