package extract

import (
	"strings"

	"github.com/antchfx/htmlquery"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

// Sunrom crawls sunrom.com. The site has no crawlable category index, so
// traversal starts from configured category slugs under /c/. Listing pages
// expose bare product links only; everything else comes from the detail page.
// Prices are published in paise.
//
// This extractor uses XPath: the markup here leans on positional structure
// (Bootstrap panels) rather than semantic classes, which XPath expresses more
// directly than CSS selectors.
type Sunrom struct {
	site
}

// NewSunrom builds the sunrom.com extractor.
func NewSunrom(cfg config.SiteConfig) *Sunrom {
	return &Sunrom{site{source: types.SourceSunrom, cfg: cfg}}
}

func (s *Sunrom) SeedCategories() []types.CategoryRef {
	var seeds []types.CategoryRef
	for _, slug := range s.cfg.Categories {
		seeds = append(seeds, types.CategoryRef{
			Name: slug,
			URL:  s.cfg.BaseURL + "/c/" + slug,
		})
	}
	return seeds
}

func (s *Sunrom) Categories(p *types.Page) []types.CategoryRef { return nil }

func (s *Sunrom) Subcategories(p *types.Page) []types.CategoryRef {
	root, err := p.Root()
	if err != nil {
		return nil
	}
	var subs []types.CategoryRef
	nodes := htmlquery.Find(root, `//div[contains(@class,"panel-body")]//div[contains(@class,"row")]/div/a`)
	for _, n := range nodes {
		u := absURL(s.cfg.BaseURL, htmlquery.SelectAttr(n, "href"))
		name := cleanText(htmlquery.InnerText(n))
		if u != "" && name != "" {
			subs = append(subs, types.CategoryRef{Name: name, URL: u})
		}
	}
	return subs
}

func (s *Sunrom) Products(p *types.Page) []types.Candidate {
	root, err := p.Root()
	if err != nil {
		return nil
	}
	var cands []types.Candidate
	nodes := htmlquery.Find(root, `//div[contains(@class,"category-index")]//a[contains(@class,"thumbnail")]`)
	for _, n := range nodes {
		c := types.Candidate{
			URL: absURL(s.cfg.BaseURL, htmlquery.SelectAttr(n, "href")),
		}
		if c.Identifiable() {
			cands = append(cands, c)
		}
	}
	return cands
}

func (s *Sunrom) NextPageURL(p *types.Page) string {
	root, err := p.Root()
	if err != nil {
		return ""
	}
	n := htmlquery.FindOne(root, `//li[contains(@class,"next") and not(contains(@class,"disabled"))]/a`)
	if n == nil {
		return ""
	}
	return absURL(s.cfg.BaseURL, htmlquery.SelectAttr(n, "href"))
}

func (s *Sunrom) NeedsDetail() bool { return true }

func (s *Sunrom) ProductDetail(p *types.Page, c *types.Candidate) {
	root, err := p.Root()
	if err != nil {
		return
	}
	if n := htmlquery.FindOne(root, `//h1`); n != nil {
		c.Name = cleanText(htmlquery.InnerText(n))
	}
	if n := htmlquery.FindOne(root, `//img[@id="main_img"]`); n != nil {
		c.ImageURL = absURL(s.cfg.BaseURL, htmlquery.SelectAttr(n, "src"))
	}
	if n := htmlquery.FindOne(root, `//div[contains(@class,"panel-footer")]//span[contains(@class,"label-product")]`); n != nil {
		c.Price = strings.TrimSpace(htmlquery.InnerText(n))
	}
	if n := htmlquery.FindOne(root, `//div[contains(@class,"leadtime")]/b`); n != nil {
		c.Stock = cleanText(htmlquery.InnerText(n))
	}
	c.StockKnown = true
}
