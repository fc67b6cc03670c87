package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	f, err := New(config.DefaultConfig(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	httpmock.ActivateNonDefault(f.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return f
}

func TestFetchSuccess(t *testing.T) {
	f := newTestFetcher(t)
	httpmock.RegisterResponder("GET", "https://example.com/page",
		httpmock.NewStringResponder(200, "<html><body>ok</body></html>"))

	page, err := f.Fetch(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.StatusCode != 200 {
		t.Errorf("status = %d", page.StatusCode)
	}
	if !bytes.Contains(page.Body, []byte("ok")) {
		t.Errorf("body = %q", page.Body)
	}
	if page.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestFetchServerErrorIsRetryable(t *testing.T) {
	f := newTestFetcher(t)
	httpmock.RegisterResponder("GET", "https://example.com/flaky",
		httpmock.NewStringResponder(503, "unavailable"))

	_, err := f.Fetch(context.Background(), "https://example.com/flaky")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *types.FetchError, got %T", err)
	}
	if !fe.Retryable {
		t.Error("5xx should be retryable")
	}
	if fe.StatusCode != 503 {
		t.Errorf("status = %d", fe.StatusCode)
	}
}

func TestFetchNotFoundIsNotRetryable(t *testing.T) {
	f := newTestFetcher(t)
	httpmock.RegisterResponder("GET", "https://example.com/gone",
		httpmock.NewStringResponder(404, "not found"))

	_, err := f.Fetch(context.Background(), "https://example.com/gone")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *types.FetchError, got %T", err)
	}
	if fe.Retryable {
		t.Error("404 should not be retryable")
	}
}

func TestFetchRateLimitedCarriesRetryAfter(t *testing.T) {
	f := newTestFetcher(t)
	httpmock.RegisterResponder("GET", "https://example.com/limited",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(429, "slow down")
			resp.Header.Set("Retry-After", "7")
			return resp, nil
		})

	_, err := f.Fetch(context.Background(), "https://example.com/limited")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *types.FetchError, got %T", err)
	}
	if !fe.Retryable {
		t.Error("429 should be retryable")
	}
	if fe.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", fe.RetryAfter)
	}
}

func TestFetchGzipBody(t *testing.T) {
	f := newTestFetcher(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("<html>compressed</html>"))
	zw.Close()

	httpmock.RegisterResponder("GET", "https://example.com/gz",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(200, buf.Bytes())
			resp.Header.Set("Content-Encoding", "gzip")
			resp.Request = req
			return resp, nil
		})

	page, err := f.Fetch(context.Background(), "https://example.com/gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(page.Body, []byte("compressed")) {
		t.Errorf("body not decompressed: %q", page.Body)
	}
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	f := newTestFetcher(t)

	var ua string
	httpmock.RegisterResponder("GET", "https://example.com/ua",
		func(req *http.Request) (*http.Response, error) {
			ua = req.Header.Get("User-Agent")
			resp := httpmock.NewStringResponse(200, "ok")
			resp.Request = req
			return resp, nil
		})

	if _, err := f.Fetch(context.Background(), "https://example.com/ua"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ua == "" {
		t.Error("request carried no User-Agent")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("30"); got != 30*time.Second {
		t.Errorf("parseRetryAfter(30) = %s", got)
	}
	if got := parseRetryAfter("900"); got != 2*time.Minute {
		t.Errorf("parseRetryAfter(900) = %s, want capped at 2m", got)
	}
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Errorf("parseRetryAfter(empty) = %s, want default 5s", got)
	}
}
