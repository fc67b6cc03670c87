// Package index abstracts the external search index the reconciler diffs
// against. Two backends are provided: the hosted Algolia index and a
// self-hosted MongoDB collection with the same record shape.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// ErrNotFound reports a point lookup for an ID the index does not hold.
// Callers treat it as "new record", never as a failure.
var ErrNotFound = errors.New("record not found")

// Index is the reconciler's view of the external search index.
type Index interface {
	// GetByID fetches one record. Returns ErrNotFound for absent IDs.
	GetByID(ctx context.Context, id string) (*types.Product, error)

	// BatchUpsert writes the batch, inserting or replacing whole records by
	// ID. Partial application is allowed on error.
	BatchUpsert(ctx context.Context, records []types.Product) error

	// Name identifies the backend in logs.
	Name() string

	Close(ctx context.Context) error
}

// Open builds the configured index backend.
func Open(ctx context.Context, cfg config.IndexConfig, logger *slog.Logger) (Index, error) {
	switch cfg.Backend {
	case "algolia":
		return NewAlgolia(cfg.Algolia, logger)
	case "mongo":
		return NewMongo(ctx, cfg.Mongo, logger)
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}
