package run

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// failingFetcher refuses every URL.
type failingFetcher struct {
	mu      sync.Mutex
	fetched int
}

func (f *failingFetcher) Fetch(_ context.Context, rawURL string) (*types.Page, error) {
	f.mu.Lock()
	f.fetched++
	f.mu.Unlock()
	return nil, &types.FetchError{URL: rawURL, StatusCode: 503, Retryable: false}
}

func testConfig(t *testing.T, enabled ...string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Engine.PolitenessDelay = 0
	cfg.Engine.MaxRetries = 0
	cfg.Snapshot.Enabled = false
	want := make(map[string]bool)
	for _, name := range enabled {
		want[name] = true
	}
	for name, sc := range cfg.Sites {
		sc.Enabled = want[name]
		cfg.Sites[name] = sc
	}
	return cfg
}

func TestRunSiteFailuresAreIsolated(t *testing.T) {
	cfg := testConfig(t, "robu", "zbotic")
	fetcher := &failingFetcher{}

	orch := New(cfg, fetcher, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run must complete despite unreachable sites: %v", err)
	}

	if len(summary.Sites) != 2 {
		t.Fatalf("got %d site summaries, want 2", len(summary.Sites))
	}
	for _, ss := range summary.Sites {
		if !ss.RootFailed {
			t.Errorf("site %s should report root failure", ss.Site)
		}
	}
	if summary.Products != 0 {
		t.Errorf("products = %d, want 0", summary.Products)
	}
}

func TestRunSeededSiteRecordsErrorsNotRootFailure(t *testing.T) {
	// Sunrom traverses from static seeds, so a dead site shows up as crawl
	// errors rather than a root failure.
	cfg := testConfig(t, "sunrom")
	fetcher := &failingFetcher{}

	orch := New(cfg, fetcher, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	ss := summary.Sites[0]
	if ss.RootFailed {
		t.Error("seeded site has no root page to fail")
	}
	if ss.CrawlErrors == 0 {
		t.Error("expected per-seed fetch errors to be recorded")
	}
}

func TestRunNoSitesEnabled(t *testing.T) {
	cfg := testConfig(t)
	orch := New(cfg, &failingFetcher{}, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(summary.Sites) != 0 || summary.Products != 0 {
		t.Errorf("empty config produced work: %+v", summary)
	}
	if summary.Reconcile != nil {
		t.Error("nothing harvested, nothing to reconcile")
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	cfg := testConfig(t, "robu", "robokits", "zbotic")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(cfg, &failingFetcher{}, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	summary, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Cancelled before any site could harvest anything.
	if summary.Products != 0 {
		t.Errorf("products = %d, want 0 after cancellation", summary.Products)
	}
}
