package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Quartz crawls quartzcomponents.com, a Shopify storefront with statically
// configured collection seeds. Prices are published in minor units.
type Quartz struct {
	site
}

// NewQuartz builds the quartzcomponents.com extractor.
func NewQuartz(cfg config.SiteConfig) *Quartz {
	return &Quartz{site{source: types.SourceQuartz, cfg: cfg}}
}

func (q *Quartz) SeedCategories() []types.CategoryRef {
	var seeds []types.CategoryRef
	for _, slug := range q.cfg.Categories {
		seeds = append(seeds, types.CategoryRef{
			Name: slug,
			URL:  q.cfg.BaseURL + "/collections/" + slug,
		})
	}
	return seeds
}

func (q *Quartz) Categories(p *types.Page) []types.CategoryRef { return nil }

func (q *Quartz) Subcategories(p *types.Page) []types.CategoryRef {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var subs []types.CategoryRef
	doc.Find(".subcat-grid-link").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		name := cleanText(sel.Find(".subcat-grid-link__title").Text())
		// Titles carry an item count suffix like "Sensors (142)".
		if i := strings.Index(name, "("); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		u := absURL(q.cfg.BaseURL, href)
		if u != "" && name != "" {
			subs = append(subs, types.CategoryRef{Name: name, URL: u})
		}
	})
	return subs
}

func (q *Quartz) Products(p *types.Page) []types.Candidate {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cands []types.Candidate
	doc.Find(".product-card").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(".product-title a").First()
		href, _ := link.Attr("href")
		c := types.Candidate{
			Name: cleanText(link.Text()),
			URL:  absURL(q.cfg.BaseURL, href),
		}
		if c.Identifiable() {
			cands = append(cands, c)
		}
	})
	return cands
}

func (q *Quartz) NextPageURL(p *types.Page) string {
	doc, err := p.Document()
	if err != nil {
		return ""
	}
	href, _ := doc.Find(".btn--next").First().Attr("href")
	return absURL(q.cfg.BaseURL, href)
}

func (q *Quartz) NeedsDetail() bool { return true }

func (q *Quartz) ProductDetail(p *types.Page, c *types.Candidate) {
	doc, err := p.Document()
	if err != nil {
		return
	}
	c.Price = cleanText(doc.Find(".product-single__price").First().Text())
	c.Stock = cleanText(doc.Find(".product_inventory span").First().Text())
	c.StockKnown = true
	if img, ok := doc.Find(".product-single__photo img.product-featured-img").First().Attr("src"); ok {
		c.ImageURL = absURL(q.cfg.BaseURL, img)
	}
}
