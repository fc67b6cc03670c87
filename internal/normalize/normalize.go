// Package normalize converts raw extracted candidates into canonical product
// records: stable content-hash IDs, currency-free decimal prices, and
// lower-cased stock descriptors.
package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/electrodex/electrodex/internal/crawl"
	"github.com/electrodex/electrodex/internal/extract"
	"github.com/electrodex/electrodex/internal/metrics"
	"github.com/electrodex/electrodex/internal/types"
)

// Normalizer applies one site's conventions to its raw candidates.
type Normalizer struct {
	source  types.Source
	conv    extract.Conventions
	logger  *slog.Logger
	metrics *metrics.Metrics

	now func() time.Time
}

// New builds a normalizer for one source with its declared conventions.
func New(source types.Source, conv extract.Conventions, m *metrics.Metrics, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		source:  source,
		conv:    conv,
		logger:  logger.With("component", "normalize", "site", source),
		metrics: m,
		now:     time.Now,
	}
}

// Result reports what normalization kept and dropped.
type Result struct {
	Products []types.Product
	Skipped  int
}

// Normalize converts candidates to products. Candidates missing both name and
// URL, or missing the URL needed for a stable ID, are dropped and counted.
func (n *Normalizer) Normalize(cands []types.Candidate) *Result {
	res := &Result{Products: make([]types.Product, 0, len(cands))}
	now := n.now()

	for i := range cands {
		c := &cands[i]
		if c.Name == "" || c.URL == "" {
			res.Skipped++
			n.logger.Debug("dropping unidentifiable candidate", "name", c.Name, "url", c.URL)
			continue
		}

		url := crawl.CanonicalizeURL(c.URL)
		res.Products = append(res.Products, types.Product{
			ID:          ProductID(url),
			Name:        c.Name,
			URL:         url,
			Price:       NormalizePrice(c.Price, n.conv.PriceDivisor),
			Stock:       n.normalizeStock(c),
			ImageURL:    c.ImageURL,
			Category:    c.Category,
			Source:      n.source,
			SourceImage: n.conv.SourceImage,
			LastUpdated: now,
		})
	}

	n.metrics.AddSkipped(string(n.source), res.Skipped)
	return res
}

// ProductID derives the stable record ID from the canonical product URL.
// Only the URL participates: price and stock churn must never change the ID.
func ProductID(canonicalURL string) string {
	sum := md5.Sum([]byte(canonicalURL))
	return hex.EncodeToString(sum[:])
}

var nonPriceRe = regexp.MustCompile(`[^0-9.]`)

// NormalizePrice strips currency symbols and separators, keeping digits and
// the first decimal point, then applies the site's unit divisor. Empty input
// stays empty: unknown is not zero.
func NormalizePrice(raw string, divisor int) string {
	s := nonPriceRe.ReplaceAllString(raw, "")
	// Thousands separators are gone; if more than one dot survives (markup
	// quirks), keep everything up to the second one.
	if i := strings.Index(s, "."); i >= 0 {
		if j := strings.Index(s[i+1:], "."); j >= 0 {
			s = s[:i+1+j]
		}
	}
	s = strings.Trim(s, ".")
	if s == "" {
		return ""
	}
	if divisor <= 1 {
		return s
	}

	// Divisor-unit prices (paise) are integers; do the division in integer
	// math to avoid float formatting artifacts.
	whole := s
	if i := strings.Index(whole, "."); i >= 0 {
		whole = whole[:i]
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return s
	}
	rupees := units / int64(divisor)
	frac := units % int64(divisor)
	if frac == 0 {
		return strconv.FormatInt(rupees, 10)
	}
	out := strconv.FormatInt(rupees, 10) + "." + leftPad(strconv.FormatInt(frac, 10), len(strconv.Itoa(divisor))-1)
	out = strings.TrimRight(out, "0")
	return strings.TrimRight(out, ".")
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

var countRe = regexp.MustCompile(`^(\d+)(\s|$)`)

// normalizeStock lower-cases and canonicalizes a raw stock descriptor: a
// leading count ("5 left", "2 in stock", bare digits) becomes the number, an
// "in stock" phrase collapses to "in stock", and an empty indicator falls
// back to the site's empty-stock policy. A candidate whose detail fetch
// failed bypasses the policy and stays unknown.
func (n *Normalizer) normalizeStock(c *types.Candidate) string {
	s := strings.ToLower(strings.TrimSpace(c.Stock))

	if s == "" {
		if c.StockKnown && n.conv.EmptyStock == types.StockAssumeInStock {
			return "in stock"
		}
		return ""
	}
	if m := countRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if strings.Contains(s, "in stock") {
		return "in stock"
	}
	return s
}
