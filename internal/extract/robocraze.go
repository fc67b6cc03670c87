package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Robocraze crawls robocraze.com, a Shopify storefront. Collections are
// enumerated from the paginated /collections list page; pagination is
// numbered rather than linked, so the next page is synthesized from a
// ?page=N query parameter.
type Robocraze struct {
	site

	// seenCollections dedupes collections by display name: the storefront
	// lists the same collection under several menu sections, at different
	// URLs. Traversal enumerates one page at a time, so no locking.
	seenCollections map[string]bool
}

// NewRobocraze builds the robocraze.com extractor.
func NewRobocraze(cfg config.SiteConfig) *Robocraze {
	return &Robocraze{
		site:            site{source: types.SourceRobocraze, cfg: cfg},
		seenCollections: make(map[string]bool),
	}
}

func (r *Robocraze) SeedCategories() []types.CategoryRef {
	// Single synthetic seed: the collection list page, not the site root.
	return []types.CategoryRef{{Name: "collections", URL: r.cfg.BaseURL + "/collections"}}
}

func (r *Robocraze) Categories(p *types.Page) []types.CategoryRef { return nil }

// Subcategories enumerates the collection list. The list itself is paginated,
// so the next list page is chained as an unnamed ref for the walk to follow;
// collection listing pages carry no list items and return nil here.
func (r *Robocraze) Subcategories(p *types.Page) []types.CategoryRef {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	items := doc.Find("li.collection-list__item")
	if items.Length() == 0 {
		return nil
	}

	var refs []types.CategoryRef
	items.Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.full-unstyled-link").First()
		if link.Length() == 0 {
			link = sel.Find("a").First()
		}
		href, _ := link.Attr("href")
		name := cleanText(sel.Find(".card__heading, .full-unstyled-link").First().Text())
		name = strings.TrimSpace(strings.TrimPrefix(name, "- "))
		u := absURL(r.cfg.BaseURL, href)
		if u == "" || name == "" || r.seenCollections[name] {
			return
		}
		r.seenCollections[name] = true
		refs = append(refs, types.CategoryRef{Name: name, URL: u})
	})

	if next := nextNumberedPage(doc, p.URL); next != "" {
		refs = append(refs, types.CategoryRef{URL: next})
	}
	return refs
}

func (r *Robocraze) Products(p *types.Page) []types.Candidate {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cands []types.Candidate
	doc.Find("li.grid__item").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.full-unstyled-link").First()
		href, _ := link.Attr("href")
		c := types.Candidate{
			Name: cleanText(link.Text()),
			URL:  absURL(r.cfg.BaseURL, href),
		}
		if c.Identifiable() {
			cands = append(cands, c)
		}
	})
	return cands
}

func (r *Robocraze) NextPageURL(p *types.Page) string {
	doc, err := p.Document()
	if err != nil {
		return ""
	}
	return nextNumberedPage(doc, p.URL)
}

// nextNumberedPage synthesizes the next ?page=N URL from the numbered
// pagination nav, or "" when pageURL is already the highest page.
func nextNumberedPage(doc *goquery.Document, pageURL string) string {
	last := maxPageNumber(doc)
	if last <= 1 {
		return ""
	}
	cur := currentPage(pageURL)
	if cur >= last {
		return ""
	}
	base := pageURL
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%s?page=%d", base, cur+1)
}

// maxPageNumber scans the numbered pagination nav for the highest page index.
func maxPageNumber(doc *goquery.Document) int {
	max := 0
	doc.Find("nav.pagination .pagination__item.link").Each(func(_ int, sel *goquery.Selection) {
		if n, err := strconv.Atoi(cleanText(sel.Text())); err == nil && n > max {
			max = n
		}
	})
	return max
}

// currentPage reads the ?page=N parameter of a listing URL, defaulting to 1.
func currentPage(rawURL string) int {
	i := strings.Index(rawURL, "page=")
	if i < 0 {
		return 1
	}
	rest := rawURL[i+len("page="):]
	if j := strings.IndexAny(rest, "&#"); j >= 0 {
		rest = rest[:j]
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (r *Robocraze) NeedsDetail() bool { return true }

func (r *Robocraze) ProductDetail(p *types.Page, c *types.Candidate) {
	doc, err := p.Document()
	if err != nil {
		return
	}
	price := cleanText(doc.Find(".price-item--sale").First().Text())
	if price == "" {
		price = cleanText(doc.Find(".price-item--regular").First().Text())
	}
	c.Price = price
	if img, ok := doc.Find(".product__media img").First().Attr("src"); ok {
		c.ImageURL = absURL(r.cfg.BaseURL, img)
	}
	c.Stock = cleanText(doc.Find(".product__inventory").First().Text())
	c.StockKnown = true
}
