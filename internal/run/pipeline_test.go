package run

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/electrodex/electrodex/internal/fetcher"
	"github.com/electrodex/electrodex/internal/index"
	"github.com/electrodex/electrodex/internal/types"
)

// memIndex is an in-memory index.Index for end-to-end runs.
type memIndex struct {
	mu      sync.Mutex
	records map[string]types.Product
	writes  int
}

func newMemIndex() *memIndex {
	return &memIndex{records: make(map[string]types.Product)}
}

func (m *memIndex) Name() string                { return "mem" }
func (m *memIndex) Close(context.Context) error { return nil }

func (m *memIndex) GetByID(_ context.Context, id string) (*types.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		return nil, index.ErrNotFound
	}
	return &p, nil
}

func (m *memIndex) BatchUpsert(_ context.Context, records []types.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for _, p := range records {
		m.records[p.ID] = p
	}
	return nil
}

// zboticTestServer serves a minimal zbotic-shaped site: a root category page,
// one paginated listing, and product detail pages.
func zboticTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body>
<div class="category-grid"><a href="/product-category/sensors/"><h4>Sensors</h4></a></div>
</body></html>`))
	})
	mux.HandleFunc("/product-category/sensors/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.Write([]byte(`<html><body>
<div class="content-product"><div class="product-title"><a href="/product/hc-sr04/">HC-SR04</a></div></div>
</body></html>`))
			return
		}
		w.Write([]byte(`<html><body>
<div class="content-product"><div class="product-title"><a href="/product/esp32/">ESP32 DevKit</a></div></div>
<a class="next page-numbers" href="/product-category/sensors/?page=2">Next</a>
</body></html>`))
	})
	mux.HandleFunc("/product/esp32/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<h1 class="product_title">ESP32 DevKit</h1>
<p class="price"><span class="woocommerce-Price-amount">&#8377;450.00</span></p>
<p class="stock in-stock">12 in stock</p>
</body></html>`))
	})
	mux.HandleFunc("/product/hc-sr04/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<h1 class="product_title">HC-SR04</h1>
<p class="price"><span class="woocommerce-Price-amount">&#8377;99.00</span></p>
<p class="stock out-of-stock">Unavailable</p>
</body></html>`))
	})
	return httptest.NewServer(mux)
}

func TestPipelineEndToEnd(t *testing.T) {
	srv := zboticTestServer(t)
	defer srv.Close()

	// zbotic is healthy; robu points at a dead address and must fail in
	// isolation without costing zbotic its products.
	cfg := testConfig(t, "zbotic", "robu")
	sc := cfg.Sites["zbotic"]
	sc.BaseURL = srv.URL
	cfg.Sites["zbotic"] = sc
	dead := cfg.Sites["robu"]
	dead.BaseURL = "http://127.0.0.1:9"
	cfg.Sites["robu"] = dead

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := fetcher.New(cfg, nil, logger)
	if err != nil {
		t.Fatalf("fetcher: %v", err)
	}
	defer f.Close()

	idx := newMemIndex()
	orch := New(cfg, f, idx, nil, logger)

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Products != 2 {
		t.Fatalf("products = %d, want 2 across both listing pages", summary.Products)
	}
	for _, ss := range summary.Sites {
		if ss.Site == "robu" && !ss.RootFailed {
			t.Error("dead site should report root failure")
		}
		if ss.Site == "zbotic" && ss.Products != 2 {
			t.Errorf("healthy site yielded %d products, want 2", ss.Products)
		}
	}
	if summary.Reconcile == nil || summary.Reconcile.Inserted != 2 {
		t.Fatalf("reconcile = %+v, want 2 inserts", summary.Reconcile)
	}
	if len(idx.records) != 2 {
		t.Fatalf("index holds %d records, want 2", len(idx.records))
	}

	var esp32 *types.Product
	for id, p := range idx.records {
		if p.Name == "ESP32 DevKit" {
			rec := idx.records[id]
			esp32 = &rec
		}
	}
	if esp32 == nil {
		t.Fatal("ESP32 record missing from index")
	}
	if esp32.Price != "450.00" {
		t.Errorf("price = %q, want currency stripped", esp32.Price)
	}
	if esp32.Stock != "12" {
		t.Errorf("stock = %q, want bare count", esp32.Stock)
	}
	if esp32.Source != "zbotic" {
		t.Errorf("source = %q", esp32.Source)
	}

	// Second run against the same site finds nothing new.
	idx.writes = 0
	summary, err = orch.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Reconcile.Written() != 0 {
		t.Errorf("second run wrote %d records, want 0", summary.Reconcile.Written())
	}
	if idx.writes != 0 {
		t.Errorf("second run issued %d batch writes, want 0", idx.writes)
	}
}
