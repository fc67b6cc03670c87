// Package crawl implements the per-site traversal engine: a bounded-depth
// category walk with a shared visited set, paginated listing harvest, and
// bounded-concurrency detail fetches.
package crawl

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Visited is the set of URLs already walked in one crawl run. It guarantees
// each canonical URL is processed at most once even when detail fetches run
// concurrently.
type Visited struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisited creates a Visited set with the given estimated capacity.
func NewVisited(estimatedCapacity int) *Visited {
	return &Visited{seen: make(map[string]struct{}, estimatedCapacity)}
}

// Visit marks the URL as seen and reports whether this call was the first
// visit. Mark-on-check keeps the check atomic under concurrent use.
func (v *Visited) Visit(rawURL string) bool {
	key := hashURL(CanonicalizeURL(rawURL))
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[key]; ok {
		return false
	}
	v.seen[key] = struct{}{}
	return true
}

// Seen reports whether the URL was already visited, without marking it.
func (v *Visited) Seen(rawURL string) bool {
	key := hashURL(CanonicalizeURL(rawURL))
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[key]
	return ok
}

// Count returns the number of unique URLs visited.
func (v *Visited) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// CanonicalizeURL normalizes a URL so that trivially different spellings of
// the same page dedupe to one visit:
//   - lowercases scheme and host
//   - removes the fragment
//   - sorts query parameters
//   - removes a trailing slash (except root)
//   - removes default ports
func CanonicalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	host := u.Hostname()
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sorted []string
		for _, k := range keys {
			vals := params[k]
			sort.Strings(vals)
			for _, val := range vals {
				sorted = append(sorted, url.QueryEscape(k)+"="+url.QueryEscape(val))
			}
		}
		u.RawQuery = strings.Join(sorted, "&")
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

func hashURL(canonical string) string {
	h := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(h[:16])
}
