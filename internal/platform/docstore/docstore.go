// Package docstore connects the MongoDB backend used when STORE_DRIVER=mongo.
package docstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"officehr/internal/platform/config"
)

const (
	CollectionUsers     = "users"
	CollectionEmployees = "employees"
	CollectionLeaves    = "leaves"
	CollectionPayrolls  = "payrolls"
	CollectionAudit     = "audit_events"
	CollectionCirculars = "circulars"
)

type Client struct {
	client *mongo.Client
	DB     *mongo.Database
}

func Connect(ctx context.Context, cfg config.Config) (*Client, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Client{client: client, DB: client.Database(cfg.MongoDatabase)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes mirrors the unique and lookup indexes of the SQL schema.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionEmployees: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "employee_code", Value: 1}}},
		},
		CollectionLeaves: {
			{Keys: bson.D{{Key: "employee_code", Value: 1}, {Key: "month", Value: 1}, {Key: "year", Value: 1}}},
		},
		CollectionPayrolls: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		CollectionCirculars: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := c.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
