package index

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/errs"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Algolia is the hosted search index backend.
type Algolia struct {
	index  *search.Index
	logger *slog.Logger
}

// NewAlgolia builds the Algolia backend from credentials.
func NewAlgolia(cfg config.AlgoliaConfig, logger *slog.Logger) (*Algolia, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, errors.New("algolia: app_id and api_key are required")
	}
	client := search.NewClient(cfg.AppID, cfg.APIKey)
	return &Algolia{
		index:  client.InitIndex(cfg.IndexName),
		logger: logger.With("component", "index", "backend", "algolia"),
	}, nil
}

func (a *Algolia) Name() string { return "algolia" }

func (a *Algolia) GetByID(ctx context.Context, id string) (*types.Product, error) {
	var p types.Product
	if err := a.index.GetObject(id, &p, ctx); err != nil {
		var apiErr *errs.AlgoliaErr
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, &types.IndexError{Backend: a.Name(), Op: "get", Err: err}
	}
	return &p, nil
}

func (a *Algolia) BatchUpsert(ctx context.Context, records []types.Product) error {
	if len(records) == 0 {
		return nil
	}
	objects := make([]interface{}, len(records))
	for i := range records {
		objects[i] = records[i]
	}
	if _, err := a.index.SaveObjects(objects, ctx); err != nil {
		return &types.IndexError{Backend: a.Name(), Op: "save", Err: err}
	}
	a.logger.Debug("batch saved", "records", len(records))
	return nil
}

func (a *Algolia) Close(context.Context) error { return nil }
