package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Zbotic crawls zbotic.in, a flat WooCommerce storefront: categories lead
// straight to paginated listings. Listing pages carry only name and URL;
// price, stock, and image come from the product page.
type Zbotic struct {
	site
}

// NewZbotic builds the zbotic.in extractor.
func NewZbotic(cfg config.SiteConfig) *Zbotic {
	return &Zbotic{site{source: types.SourceZbotic, cfg: cfg}}
}

func (z *Zbotic) SeedCategories() []types.CategoryRef { return nil }

func (z *Zbotic) Categories(p *types.Page) []types.CategoryRef {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cats []types.CategoryRef
	doc.Find(".category-grid").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Find("a").First().Attr("href")
		name := cleanText(sel.Find("h4").First().Text())
		u := absURL(z.cfg.BaseURL, href)
		if u != "" && name != "" {
			cats = append(cats, types.CategoryRef{Name: name, URL: u})
		}
	})
	return cats
}

func (z *Zbotic) Subcategories(p *types.Page) []types.CategoryRef { return nil }

func (z *Zbotic) Products(p *types.Page) []types.Candidate {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var cands []types.Candidate
	doc.Find(".content-product").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(".product-title a").First()
		href, _ := link.Attr("href")
		c := types.Candidate{
			Name: cleanText(link.Text()),
			URL:  absURL(z.cfg.BaseURL, href),
		}
		if c.Identifiable() {
			cands = append(cands, c)
		}
	})
	return cands
}

func (z *Zbotic) NextPageURL(p *types.Page) string {
	doc, err := p.Document()
	if err != nil {
		return ""
	}
	href, _ := doc.Find(".next.page-numbers").First().Attr("href")
	return absURL(z.cfg.BaseURL, href)
}

func (z *Zbotic) NeedsDetail() bool { return true }

func (z *Zbotic) ProductDetail(p *types.Page, c *types.Candidate) {
	doc, err := p.Document()
	if err != nil {
		return
	}
	if img, ok := doc.Find(".attachment-woocommerce_single").First().Attr("src"); ok {
		c.ImageURL = absURL(z.cfg.BaseURL, img)
	}
	if name := cleanText(doc.Find(".product_title").First().Text()); name != "" {
		c.Name = name
	}
	c.Price = cleanText(doc.Find(".price > .woocommerce-Price-amount").First().Text())

	// Markup convention: the stock element carries an explicit class when the
	// item is available, and either an out-of-stock class or nothing at all
	// otherwise.
	stockSel := doc.Find(".stock").First()
	switch {
	case stockSel.HasClass("in-stock"):
		c.Stock = cleanText(stockSel.Text())
	case stockSel.Length() > 0:
		c.Stock = "Out of Stock"
	}
	c.StockKnown = true
}
