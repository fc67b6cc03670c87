// Package reconcile diffs freshly crawled products against the external
// search index and writes only what changed, in bounded batches.
package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/electrodex/electrodex/internal/index"
	"github.com/electrodex/electrodex/internal/metrics"
	"github.com/electrodex/electrodex/internal/types"
)

// Reconciler computes and applies the write-set for one run.
type Reconciler struct {
	idx       index.Index
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New builds a reconciler over the given index backend.
func New(idx index.Index, batchSize int, m *metrics.Metrics, logger *slog.Logger) *Reconciler {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Reconciler{
		idx:       idx,
		batchSize: batchSize,
		logger:    logger.With("component", "reconcile", "backend", idx.Name()),
		metrics:   m,
	}
}

// Result summarizes one reconciliation pass.
type Result struct {
	Inserted  int
	Updated   int
	Unchanged int

	// LookupErrors counts point lookups that failed for reasons other than
	// absence; those records are written as new rather than lost.
	LookupErrors int

	// FailedBatches counts batch writes that errored. Remaining batches are
	// still attempted.
	FailedBatches int

	Errors []error
}

// Written is the total number of records in the applied write-set.
func (r *Result) Written() int { return r.Inserted + r.Updated }

// Reconcile looks up each product in the index, keeps only new or changed
// records, and upserts them in batches. A failed batch does not stop later
// batches.
func (r *Reconciler) Reconcile(ctx context.Context, products []types.Product) *Result {
	res := &Result{}
	writeSet := make([]types.Product, 0, len(products))

	for i := range products {
		p := products[i]
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, ctx.Err())
			break
		}

		existing, err := r.idx.GetByID(ctx, p.ID)
		switch {
		case errors.Is(err, index.ErrNotFound):
			writeSet = append(writeSet, p)
			res.Inserted++
		case err != nil:
			// A record must not be lost to a transient lookup failure; write
			// it as if new.
			r.logger.Warn("lookup failed, writing as new", "id", p.ID, "error", err)
			res.LookupErrors++
			writeSet = append(writeSet, p)
			res.Inserted++
		case changed(existing, &p):
			writeSet = append(writeSet, merge(existing, &p))
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	r.metrics.AddWrites("insert", res.Inserted)
	r.metrics.AddWrites("update", res.Updated)
	r.metrics.AddUnchanged(res.Unchanged)

	for start := 0; start < len(writeSet); start += r.batchSize {
		end := start + r.batchSize
		if end > len(writeSet) {
			end = len(writeSet)
		}
		if err := r.idx.BatchUpsert(ctx, writeSet[start:end]); err != nil {
			res.FailedBatches++
			res.Errors = append(res.Errors, err)
			r.logger.Error("batch write failed", "batch_start", start, "batch_size", end-start, "error", err)
			continue
		}
	}

	r.logger.Info("reconcile complete",
		"inserted", res.Inserted,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"failed_batches", res.FailedBatches,
	)
	return res
}

// changed reports whether the crawled record differs from the indexed one in
// any field the crawl owns. LastUpdated never participates: a run that finds
// nothing new writes nothing. An empty crawled image is "not seen this run",
// not a difference.
func changed(existing, fresh *types.Product) bool {
	if fresh.ImageURL != "" && existing.ImageURL != fresh.ImageURL {
		return true
	}
	return existing.Price != fresh.Price ||
		existing.Stock != fresh.Stock ||
		existing.Name != fresh.Name
}

// merge overlays the crawled fields onto the existing record so that fields
// the crawl does not produce (or produced empty this run) survive the upsert.
func merge(existing, fresh *types.Product) types.Product {
	out := *existing
	out.Name = fresh.Name
	out.URL = fresh.URL
	out.Price = fresh.Price
	out.Stock = fresh.Stock
	out.Source = fresh.Source
	out.LastUpdated = fresh.LastUpdated
	if fresh.ImageURL != "" {
		out.ImageURL = fresh.ImageURL
	}
	if fresh.Category != "" {
		out.Category = fresh.Category
	}
	if fresh.SourceImage != "" {
		out.SourceImage = fresh.SourceImage
	}
	return out
}
