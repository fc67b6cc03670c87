package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/extract"
	"github.com/electrodex/electrodex/internal/metrics"
	"github.com/electrodex/electrodex/internal/types"
)

// Fetcher retrieves one page. The engine owns retries and pacing; the fetcher
// classifies failures via types.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*types.Page, error)
}

// Result is the outcome of one site's crawl. The crawl always runs to
// completion: failures are accumulated in Errors, never propagated as a
// return error.
type Result struct {
	Site          types.Source
	Candidates    []types.Candidate
	PagesFetched  int
	DetailDropped int

	// RootFailed is set when the site's entry point could not be fetched at
	// all, which distinguishes "site empty" from "site unreachable".
	RootFailed bool

	Errors []error
}

// Engine walks one site's category tree within a depth bound, harvests
// paginated product listings, and enriches candidates from detail pages.
type Engine struct {
	fetcher Fetcher
	ext     extract.Extractor
	cfg     config.EngineConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	limiter *rate.Limiter
	visited *Visited

	// detailCache avoids refetching a product page that appears in several
	// categories.
	detailCache *lru.Cache[string, *types.Page]
}

// New builds an engine for one site. The politeness limiter honors the site's
// configured delay, falling back to the engine-wide default.
func New(fetcher Fetcher, ext extract.Extractor, cfg config.EngineConfig, m *metrics.Metrics, logger *slog.Logger) (*Engine, error) {
	delay := cfg.PolitenessDelay
	if d := ext.Conventions().Delay; d > 0 {
		delay = d
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	cacheSize := cfg.DetailCacheSize
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, *types.Page](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("detail cache: %w", err)
	}

	return &Engine{
		fetcher:     fetcher,
		ext:         ext,
		cfg:         cfg,
		logger:      logger.With("component", "crawl", "site", ext.Site()),
		metrics:     m,
		limiter:     limiter,
		visited:     NewVisited(4096),
		detailCache: cache,
	}, nil
}

// Crawl walks the whole site and returns everything it could harvest.
func (e *Engine) Crawl(ctx context.Context) *Result {
	res := &Result{Site: e.ext.Site()}
	start := time.Now()

	seeds := e.ext.SeedCategories()
	if len(seeds) == 0 {
		root, err := e.fetchPage(ctx, res, e.ext.BaseURL())
		if err != nil {
			res.RootFailed = true
			res.Errors = append(res.Errors, err)
			e.logger.Error("root fetch failed", "url", e.ext.BaseURL(), "error", err)
			return res
		}
		seeds = e.ext.Categories(root)
		if len(seeds) == 0 {
			e.logger.Warn("no categories found on root page", "url", e.ext.BaseURL())
		}
	}

	for _, seed := range seeds {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, ctx.Err())
			break
		}
		e.walkCategory(ctx, res, seed, 1, seed.Name)
	}

	e.logger.Info("crawl finished",
		"pages", res.PagesFetched,
		"candidates", len(res.Candidates),
		"errors", len(res.Errors),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res
}

// walkCategory visits one category page, recurses into its subcategories, and
// harvests its paginated listing. depth counts category levels from the seeds
// (depth 1); the bound protects against cyclic taxonomies.
func (e *Engine) walkCategory(ctx context.Context, res *Result, ref types.CategoryRef, depth int, path string) {
	if depth > e.cfg.MaxDepth {
		e.logger.Debug("depth bound reached", "url", ref.URL, "depth", depth)
		return
	}
	if ref.URL == "" || !e.visited.Visit(ref.URL) {
		return
	}
	if ctx.Err() != nil {
		return
	}

	page, err := e.fetchPage(ctx, res, ref.URL)
	if err != nil {
		res.Errors = append(res.Errors, err)
		e.logger.Warn("category fetch failed", "url", ref.URL, "error", err)
		return
	}

	for _, sub := range e.ext.Subcategories(page) {
		subPath := path
		if sub.Name != "" {
			subPath = path + " > " + sub.Name
		}
		e.walkCategory(ctx, res, sub, depth+1, subPath)
	}

	e.harvest(ctx, res, page, path)
}

// harvest walks the pagination chain starting at page, extracting and
// enriching candidates until the chain ends, a page yields nothing, or a
// fetch fails.
func (e *Engine) harvest(ctx context.Context, res *Result, page *types.Page, category string) {
	for page != nil {
		cands := e.ext.Products(page)
		if len(cands) == 0 {
			return
		}
		e.metrics.AddProducts(string(e.ext.Site()), len(cands))

		kept := e.enrich(ctx, res, cands, category)
		res.Candidates = append(res.Candidates, kept...)

		next := e.ext.NextPageURL(page)
		if next == "" || !e.visited.Visit(next) {
			return
		}
		var err error
		page, err = e.fetchPage(ctx, res, next)
		if err != nil {
			res.Errors = append(res.Errors, err)
			e.logger.Warn("pagination fetch failed", "url", next, "error", err)
			return
		}
	}
}

// enrich fills stock/price/image gaps from detail pages, a bounded number at
// a time, and returns the candidates to keep. Detail failures are isolated:
// depending on the site's convention the candidate is either kept with
// unknown stock or dropped.
func (e *Engine) enrich(ctx context.Context, res *Result, cands []types.Candidate, category string) []types.Candidate {
	for i := range cands {
		cands[i].Category = category
	}
	if !e.ext.NeedsDetail() {
		return cands
	}

	drop := e.ext.Conventions().DropOnDetailFailure
	keep := make([]bool, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.cfg.DetailConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := range cands {
		i := i
		g.Go(func() error {
			c := &cands[i]
			if c.URL == "" {
				keep[i] = true
				return nil
			}
			page, err := e.detailPage(gctx, c.URL)
			if err != nil {
				e.logger.Warn("detail fetch failed", "url", c.URL, "error", err)
				keep[i] = !drop
				return nil
			}
			e.ext.ProductDetail(page, c)
			keep[i] = true
			return nil
		})
	}
	// Detail workers are joined before this listing page is considered done,
	// so a site crawl never returns with fetches still in flight.
	_ = g.Wait()

	out := cands[:0]
	for i, ok := range keep {
		if ok {
			out = append(out, cands[i])
		} else {
			res.DetailDropped++
			e.metrics.AddSkipped(string(e.ext.Site()), 1)
		}
	}
	return out
}

// detailPage fetches a product page through the LRU cache.
func (e *Engine) detailPage(ctx context.Context, rawURL string) (*types.Page, error) {
	key := CanonicalizeURL(rawURL)
	if page, ok := e.detailCache.Get(key); ok {
		return page, nil
	}
	// Detail fetches are bounded by the errgroup limit, not the politeness
	// limiter; the delay applies between listing-page fetches.
	page, err := e.fetchWithRetry(ctx, rawURL, false)
	if err != nil {
		return nil, err
	}
	e.detailCache.Add(key, page)
	return page, nil
}

// fetchPage fetches one traversal page with pacing and retries, counting it
// in the result.
func (e *Engine) fetchPage(ctx context.Context, res *Result, rawURL string) (*types.Page, error) {
	page, err := e.fetchWithRetry(ctx, rawURL, true)
	if err != nil {
		return nil, err
	}
	res.PagesFetched++
	e.metrics.IncPages(string(e.ext.Site()))
	return page, nil
}

// fetchWithRetry retries retryable failures up to the configured bound. When
// paced, each attempt waits on the politeness limiter first. A 429
// Retry-After hint overrides the fixed retry delay.
func (e *Engine) fetchWithRetry(ctx context.Context, rawURL string, paced bool) (*types.Page, error) {
	var last error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			e.metrics.IncRetries()
			delay := e.cfg.RetryDelay
			var fe *types.FetchError
			if errors.As(last, &fe) && fe.RetryAfter > 0 {
				delay = fe.RetryAfter
			}
			e.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if paced {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		page, err := e.fetcher.Fetch(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		last = err

		var fe *types.FetchError
		if !errors.As(err, &fe) || !fe.Retryable {
			return nil, err
		}
	}
	return nil, last
}

// VisitedCount exposes the visited-set size for reporting.
func (e *Engine) VisitedCount() int { return e.visited.Count() }
