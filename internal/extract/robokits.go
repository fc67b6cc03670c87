package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Robokits crawls robokits.co.in. The taxonomy is two levels deep and uses
// the same markup for both levels; listing pages omit price and stock, so
// every product needs a detail fetch.
type Robokits struct {
	site
}

// NewRobokits builds the robokits.co.in extractor.
func NewRobokits(cfg config.SiteConfig) *Robokits {
	return &Robokits{site{source: types.SourceRobokits, cfg: cfg}}
}

func (r *Robokits) SeedCategories() []types.CategoryRef { return nil }

func (r *Robokits) Categories(p *types.Page) []types.CategoryRef {
	return r.categoryLinks(p)
}

func (r *Robokits) Subcategories(p *types.Page) []types.CategoryRef {
	return r.categoryLinks(p)
}

func (r *Robokits) categoryLinks(p *types.Page) []types.CategoryRef {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var refs []types.CategoryRef
	doc.Find(".subcategory-item").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Find("a").First().Attr("href")
		name := cleanText(sel.Find(".subcategory-item__title").Text())
		u := absURL(r.cfg.BaseURL, href)
		if u != "" && name != "" {
			refs = append(refs, types.CategoryRef{Name: name, URL: u})
		}
	})
	return refs
}

func (r *Robokits) Products(p *types.Page) []types.Candidate {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cands []types.Candidate
	doc.Find(".pzen-item").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(".product-name a").First()
		href, _ := link.Attr("href")
		img, _ := sel.Find(".product__inside__image img").First().Attr("src")
		c := types.Candidate{
			Name:     cleanText(link.Text()),
			URL:      absURL(r.cfg.BaseURL, href),
			ImageURL: absURL(r.cfg.BaseURL, img),
		}
		if c.Identifiable() {
			cands = append(cands, c)
		}
	})
	return cands
}

func (r *Robokits) NextPageURL(p *types.Page) string {
	doc, err := p.Document()
	if err != nil {
		return ""
	}
	href, _ := doc.Find("a.nextPage").First().Attr("href")
	return absURL(r.cfg.BaseURL, href)
}

func (r *Robokits) NeedsDetail() bool { return true }

func (r *Robokits) ProductDetail(p *types.Page, c *types.Candidate) {
	doc, err := p.Document()
	if err != nil {
		return
	}
	c.Stock = cleanText(doc.Find(".product-info__availability > strong").Text())
	c.StockKnown = true

	// Price text reads like "₹1,234.00 incl. GST"; keep the first token and
	// leave currency stripping to the normalizer.
	raw := cleanText(doc.Find(".product-info__price").First().Text())
	if price := firstToken(raw); price != "" {
		c.Price = price
	}
}
