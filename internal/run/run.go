// Package run is the top-level pipeline: crawl every enabled site
// concurrently, normalize, snapshot, then reconcile against the index.
package run

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/crawl"
	"github.com/electrodex/electrodex/internal/extract"
	"github.com/electrodex/electrodex/internal/index"
	"github.com/electrodex/electrodex/internal/metrics"
	"github.com/electrodex/electrodex/internal/normalize"
	"github.com/electrodex/electrodex/internal/reconcile"
	"github.com/electrodex/electrodex/internal/snapshot"
	"github.com/electrodex/electrodex/internal/types"
)

// Orchestrator wires fetcher, per-site engines, normalizer, snapshot, and
// reconciler into one run.
type Orchestrator struct {
	cfg     *config.Config
	fetcher crawl.Fetcher
	idx     index.Index
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds an orchestrator. idx may be nil for a crawl-only run (no
// reconciliation, snapshot still written).
func New(cfg *config.Config, fetcher crawl.Fetcher, idx index.Index, m *metrics.Metrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		fetcher: fetcher,
		idx:     idx,
		logger:  logger.With("component", "run"),
		metrics: m,
	}
}

// SiteSummary is one site's contribution to the run.
type SiteSummary struct {
	Site          types.Source
	PagesFetched  int
	Candidates    int
	Products      int
	Skipped       int
	RootFailed    bool
	CrawlErrors   int
	DetailDropped int
}

// Summary is the outcome of one full run.
type Summary struct {
	Started  time.Time
	Finished time.Time

	Sites        []SiteSummary
	Products     int
	SnapshotPath string
	Reconcile    *reconcile.Result
}

// Run executes the whole pipeline. Sites crawl concurrently and fail in
// isolation: one unreachable site never aborts the run, and reconciliation
// covers everything that was harvested.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Started: time.Now()}

	extractors := extract.ForConfig(o.cfg)
	if len(extractors) == 0 {
		o.logger.Warn("no sites enabled")
	}

	var (
		mu       sync.Mutex
		products []types.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, ext := range extractors {
		ext := ext
		g.Go(func() error {
			siteCtx := gctx
			if o.cfg.Engine.SiteTimeout > 0 {
				var cancel context.CancelFunc
				siteCtx, cancel = context.WithTimeout(gctx, o.cfg.Engine.SiteTimeout)
				defer cancel()
			}

			ss, prods := o.runSite(siteCtx, ext)

			mu.Lock()
			summary.Sites = append(summary.Sites, ss)
			products = append(products, prods...)
			mu.Unlock()
			// Site failures are recorded in the summary, never returned: a
			// group error would cancel sibling crawls.
			return nil
		})
	}
	_ = g.Wait()

	summary.Products = len(products)
	o.logger.Info("crawl phase complete", "sites", len(summary.Sites), "products", len(products))

	if o.cfg.Snapshot.Enabled && len(products) > 0 {
		writer := snapshot.NewWriter(o.cfg.Snapshot.Dir, o.logger)
		path, err := writer.Write(products)
		if err != nil {
			o.logger.Error("snapshot failed", "error", err)
		} else {
			summary.SnapshotPath = path
		}
	}

	if o.idx != nil && len(products) > 0 {
		rec := reconcile.New(o.idx, o.cfg.Index.BatchSize, o.metrics, o.logger)
		summary.Reconcile = rec.Reconcile(ctx, products)
	}

	summary.Finished = time.Now()
	o.logger.Info("run complete",
		"products", summary.Products,
		"elapsed", summary.Finished.Sub(summary.Started).Round(time.Second),
	)
	return summary, nil
}

// runSite crawls and normalizes one site.
func (o *Orchestrator) runSite(ctx context.Context, ext extract.Extractor) (SiteSummary, []types.Product) {
	ss := SiteSummary{Site: ext.Site()}

	engine, err := crawl.New(o.fetcher, ext, o.cfg.Engine, o.metrics, o.logger)
	if err != nil {
		o.logger.Error("engine init failed", "site", ext.Site(), "error", err)
		ss.RootFailed = true
		return ss, nil
	}

	res := engine.Crawl(ctx)
	ss.PagesFetched = res.PagesFetched
	ss.Candidates = len(res.Candidates)
	ss.RootFailed = res.RootFailed
	ss.CrawlErrors = len(res.Errors)
	ss.DetailDropped = res.DetailDropped

	norm := normalize.New(ext.Site(), ext.Conventions(), o.metrics, o.logger)
	nres := norm.Normalize(res.Candidates)
	ss.Products = len(nres.Products)
	ss.Skipped = nres.Skipped

	o.logger.Info("site complete",
		"site", ext.Site(),
		"pages", ss.PagesFetched,
		"products", ss.Products,
		"skipped", ss.Skipped,
		"errors", ss.CrawlErrors,
	)
	return ss, nres.Products
}
