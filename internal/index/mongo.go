package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Mongo is the self-hosted index backend: one collection, products keyed by
// _id, whole-record replacement on upsert.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongo connects and pings the configured MongoDB deployment.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &Mongo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger.With("component", "index", "backend", "mongo"),
	}, nil
}

func (m *Mongo) Name() string { return "mongo" }

func (m *Mongo) GetByID(ctx context.Context, id string) (*types.Product, error) {
	var p types.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &types.IndexError{Backend: m.Name(), Op: "get", Err: err}
	}
	return &p, nil
}

func (m *Mongo) BatchUpsert(ctx context.Context, records []types.Product) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(records))
	for i := range records {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": records[i].ID}).
			SetReplacement(records[i]).
			SetUpsert(true)
	}
	res, err := m.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return &types.IndexError{Backend: m.Name(), Op: "bulk_write", Err: err}
	}
	m.logger.Debug("batch written", "upserted", res.UpsertedCount, "modified", res.ModifiedCount)
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	disconnectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Disconnect(disconnectCtx)
}
