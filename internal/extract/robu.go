package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Robu crawls robu.in, a WooCommerce storefront with a deep category tree.
// Listing pages carry name/price/image; stock requires a detail fetch.
type Robu struct {
	site
}

// NewRobu builds the robu.in extractor.
func NewRobu(cfg config.SiteConfig) *Robu {
	return &Robu{site{source: types.SourceRobu, cfg: cfg}}
}

func (r *Robu) SeedCategories() []types.CategoryRef { return nil }

func (r *Robu) Categories(p *types.Page) []types.CategoryRef {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cats []types.CategoryRef
	doc.Find(".category-card").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Find("a").First().Attr("href")
		name := cleanText(sel.Find("a").First().Text())
		if u := absURL(r.cfg.BaseURL, href); u != "" {
			cats = append(cats, types.CategoryRef{Name: name, URL: u})
		}
	})
	return cats
}

func (r *Robu) Subcategories(p *types.Page) []types.CategoryRef {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var subs []types.CategoryRef
	doc.Find(".product-category.product").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Find("a").First().Attr("href")
		name := cleanText(sel.Find("h2.woocommerce-loop-category__title").Text())
		if u := absURL(r.cfg.BaseURL, href); u != "" {
			subs = append(subs, types.CategoryRef{Name: name, URL: u})
		}
	})
	return subs
}

func (r *Robu) Products(p *types.Page) []types.Candidate {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cands []types.Candidate
	doc.Find(".product.type-product").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Find(".woocommerce-LoopProduct-link").First().Attr("href")
		img, _ := sel.Find(".attachment-woocommerce_thumbnail").First().Attr("src")
		c := types.Candidate{
			Name:     cleanText(sel.Find(".woocommerce-loop-product__title").Text()),
			URL:      absURL(r.cfg.BaseURL, href),
			Price:    cleanText(sel.Find(".woocommerce-Price-amount").First().Text()),
			ImageURL: absURL(r.cfg.BaseURL, img),
		}
		if c.Identifiable() {
			cands = append(cands, c)
		}
	})
	return cands
}

func (r *Robu) NextPageURL(p *types.Page) string {
	doc, err := p.Document()
	if err != nil {
		return ""
	}
	// "Showing all N results" means a single unpaginated listing.
	if count := cleanText(doc.Find(".woocommerce-result-count").Text()); count != "" {
		if containsFold(count, "showing all") {
			return ""
		}
	}
	href, _ := doc.Find(".next.page-numbers").First().Attr("href")
	return absURL(r.cfg.BaseURL, href)
}

func (r *Robu) NeedsDetail() bool { return true }

func (r *Robu) ProductDetail(p *types.Page, c *types.Candidate) {
	doc, err := p.Document()
	if err != nil {
		return
	}
	c.Stock = cleanText(doc.Find(".electro-stock-availability .stock").Text())
	c.StockKnown = true
}
