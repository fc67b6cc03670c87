package types

import "time"

// Source identifies one of the supported retailer sites. The set is closed:
// every Product carries exactly one of these values, fixed per extractor.
type Source string

const (
	SourceRobu      Source = "robu"
	SourceRobokits  Source = "robokits"
	SourceZbotic    Source = "zbotic"
	SourceSunrom    Source = "sunrom"
	SourceRobocraze Source = "robocraze"
	SourceQuartz    Source = "quartz"
)

// KnownSources lists all supported sources in a stable order.
func KnownSources() []Source {
	return []Source{
		SourceRobu,
		SourceRobokits,
		SourceZbotic,
		SourceSunrom,
		SourceRobocraze,
		SourceQuartz,
	}
}

// Valid reports whether s is a known source identifier.
func (s Source) Valid() bool {
	for _, known := range KnownSources() {
		if s == known {
			return true
		}
	}
	return false
}

// StockPolicy decides how an absent or empty stock indicator is interpreted.
// Sites disagree on this convention, so it is declared per source rather than
// hardcoded: on some storefronts the absence of a warning implies availability,
// on others it means the information simply was not present.
type StockPolicy string

const (
	// StockAssumeInStock maps an empty stock indicator to "in stock".
	StockAssumeInStock StockPolicy = "in_stock"
	// StockUnknown keeps an empty stock indicator empty.
	StockUnknown StockPolicy = "unknown"
)

// Product is the canonical, post-normalization record written to the search
// index and the backup snapshot.
type Product struct {
	// ID is the md5 hex digest of the product's canonical absolute URL.
	// Stable across runs; price or stock changes never change the ID.
	ID string `json:"objectID" bson:"_id"`

	Name string `json:"productName" bson:"productName"`
	URL  string `json:"productUrl" bson:"productUrl"`

	// Price is a currency-free decimal string. Empty means unknown, which is
	// distinct from zero and must stay that way downstream.
	Price string `json:"price" bson:"price"`

	// Stock is a normalized, lower-cased descriptor: a free-text availability
	// label, a bare integer count, or empty (unknown).
	Stock string `json:"stock" bson:"stock"`

	ImageURL string `json:"imageUrl" bson:"imageUrl"`

	// Category is the human-readable taxonomy path, " > " separated.
	Category string `json:"category" bson:"category"`

	Source Source `json:"source" bson:"source"`

	// SourceImage is the site's logo asset, constant per source.
	SourceImage string `json:"sourceImage" bson:"sourceImage"`

	// LastUpdated is set by the normalizer, never by an extractor.
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

// CategoryRef is a category or subcategory link discovered during traversal.
// Transient: it never outlives a single crawl run.
type CategoryRef struct {
	Name string
	URL  string
}

// Candidate is a raw product record as extracted from listing (and optionally
// detail) markup, before normalization. Fields other than Name and URL may be
// missing; a candidate with neither Name nor URL is dropped at extraction.
type Candidate struct {
	Name     string
	URL      string
	Price    string
	Stock    string
	ImageURL string
	Category string

	// StockKnown distinguishes "the detail fetch failed" from "the stock
	// element was empty": only the latter is subject to the site's empty-stock
	// policy.
	StockKnown bool
}

// Identifiable reports whether the candidate carries enough to be deduplicated
// and identified downstream.
func (c *Candidate) Identifiable() bool {
	return c.Name != "" || c.URL != ""
}
