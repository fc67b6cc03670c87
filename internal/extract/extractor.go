// Package extract holds the per-site extraction contract and one
// implementation per supported retailer. Selector logic churns often and is
// deliberately isolated here: the traversal engine, normalizer, and
// reconciler only ever see this interface.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Conventions are the declared normalization properties of one source.
// They are properties of the extractor, not inferred from data: price unit
// and empty-stock interpretation differ between sites in ways markup alone
// cannot reveal.
type Conventions struct {
	// PriceDivisor converts site-native price units to rupees (100 for
	// paise-denominated sources).
	PriceDivisor int

	// EmptyStock decides what an absent stock indicator means on this site.
	EmptyStock types.StockPolicy

	// DropOnDetailFailure drops a product whose detail fetch failed instead
	// of keeping it with unknown stock/price.
	DropOnDetailFailure bool

	// Delay is the per-site politeness delay (0 = engine default).
	Delay time.Duration

	// SourceImage is the site's logo asset attached to every product.
	SourceImage string
}

// Extractor translates raw markup from one site into structured candidates.
// Implementations must be tolerant: a page whose expected structure is absent
// yields empty results, never an error. A candidate missing both name and
// URL is dropped silently — it cannot be identified or deduplicated.
type Extractor interface {
	// Site returns the source identifier, fixed per instance.
	Site() types.Source

	// BaseURL returns the site root used to resolve relative links.
	BaseURL() string

	// Conventions returns the source's declared normalization properties.
	Conventions() Conventions

	// SeedCategories returns statically configured category entry points.
	// Empty means the site exposes a category index page at BaseURL and
	// Categories should be used instead.
	SeedCategories() []types.CategoryRef

	// Categories extracts top-level category links from the root page.
	Categories(p *types.Page) []types.CategoryRef

	// Subcategories extracts subcategory links from a category page.
	// Flat sites return nil.
	Subcategories(p *types.Page) []types.CategoryRef

	// Products extracts product candidates from a listing page.
	Products(p *types.Page) []types.Candidate

	// NextPageURL returns the absolute URL of the next listing page, or ""
	// when pagination ends.
	NextPageURL(p *types.Page) string

	// NeedsDetail reports whether listing pages omit stock/price and a
	// per-product fetch is required.
	NeedsDetail() bool

	// ProductDetail fills price/stock/image gaps in c from a product page.
	ProductDetail(p *types.Page, c *types.Candidate)
}

// ForConfig builds extractors for every enabled site, in stable source order.
func ForConfig(cfg *config.Config) []Extractor {
	var out []Extractor
	for _, src := range types.KnownSources() {
		sc, ok := cfg.Sites[string(src)]
		if !ok || !sc.Enabled {
			continue
		}
		switch src {
		case types.SourceRobu:
			out = append(out, NewRobu(sc))
		case types.SourceRobokits:
			out = append(out, NewRobokits(sc))
		case types.SourceZbotic:
			out = append(out, NewZbotic(sc))
		case types.SourceSunrom:
			out = append(out, NewSunrom(sc))
		case types.SourceRobocraze:
			out = append(out, NewRobocraze(sc))
		case types.SourceQuartz:
			out = append(out, NewQuartz(sc))
		}
	}
	return out
}

// site carries the shared plumbing of every extractor.
type site struct {
	source types.Source
	cfg    config.SiteConfig
}

func (s *site) Site() types.Source { return s.source }

func (s *site) BaseURL() string { return s.cfg.BaseURL }

func (s *site) Conventions() Conventions {
	policy := types.StockUnknown
	if s.cfg.EmptyStock == string(types.StockAssumeInStock) {
		policy = types.StockAssumeInStock
	}
	return Conventions{
		PriceDivisor:        s.cfg.PriceDivisor,
		EmptyStock:          policy,
		DropOnDetailFailure: s.cfg.DropOnDetailFailure,
		Delay:               s.cfg.Delay,
		SourceImage:         s.cfg.SourceImage,
	}
}

// absURL resolves href against base. Returns "" for unusable links.
func absURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := b.ResolveReference(h)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// cleanText trims and collapses internal whitespace. Some storefront themes
// render the same text node twice (visible + screen-reader copy), so an
// exactly doubled string is reduced to a single copy here instead of being
// truncated downstream.
func cleanText(s string) string {
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if n := len(s); n > 0 && n%2 == 0 {
		half := s[:n/2]
		if half == s[n/2:] {
			return strings.TrimSpace(half)
		}
	}
	return s
}

// containsFold reports whether s contains substr, case-insensitively.
// substr must already be lower-case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// firstToken returns the first whitespace-separated token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
