// Package mongodb stores the per-order chat log in MongoDB.
package mongodb

import (
	"context"
	"log/slog"
	"time"

	"agrimarket/config"
	"agrimarket/internal/domain/lifecycle"
	"agrimarket/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

const (
	defaultDatabase   = "agrimarket"
	defaultCollection = "messages"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects to MongoDB and returns the chat message collection.
func New(params Params) (*mongo.Collection, error) {
	cfg := params.Config.Mongo
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongo uri is not configured")
	}

	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOpts.SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(context.Background(), clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	database := cfg.Database
	if database == "" {
		database = defaultDatabase
	}
	collectionName := cfg.Collection
	if collectionName == "" {
		collectionName = defaultCollection
	}
	collection := client.Database(database).Collection(collectionName)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, nil); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}

			if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys: bson.D{{Key: "orderGroupId", Value: 1}, {Key: "createdAt", Value: -1}},
			}); err != nil {
				return errors.Wrap(err, "failed to create message index")
			}
			params.Logger.Info("MongoDB connected", slog.String("database", database), slog.String("collection", collectionName))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			return client.Disconnect(stopCtx)
		},
	})

	return collection, nil
}
