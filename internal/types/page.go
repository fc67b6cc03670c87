package types

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Page is the raw markup fetched for one URL, with lazily parsed views for
// the two extraction idioms in use (CSS selectors via goquery, XPath via
// htmlquery).
type Page struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status of the fetch.
	StatusCode int

	// Body is the decompressed response body.
	Body []byte

	// FetchedAt is when the response was received.
	FetchedAt time.Time

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	doc  *goquery.Document
	node *html.Node
}

// NewPage builds a Page from a fetched body. Used directly by tests that feed
// synthetic markup to extractors.
func NewPage(url string, body []byte) *Page {
	return &Page{
		URL:       url,
		Body:      body,
		FetchedAt: time.Now(),
	}
}

// Document returns the goquery view of the page, parsing on first use.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, &ExtractError{URL: p.URL, Err: err}
	}
	p.doc = doc
	return doc, nil
}

// Root returns the html.Node view of the page for XPath extraction, parsing
// on first use.
func (p *Page) Root() (*html.Node, error) {
	if p.node != nil {
		return p.node, nil
	}
	node, err := htmlquery.Parse(bytes.NewReader(p.Body))
	if err != nil {
		return nil, &ExtractError{URL: p.URL, Err: err}
	}
	p.node = node
	return node, nil
}
