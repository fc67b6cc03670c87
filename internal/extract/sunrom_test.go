package extract

import (
	"testing"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

func sunromExtractor() *Sunrom {
	return NewSunrom(config.SiteConfig{
		BaseURL:    "https://www.sunrom.com",
		Categories: []string{"switches", "connectors"},
	})
}

func TestSunromSeedCategories(t *testing.T) {
	seeds := sunromExtractor().SeedCategories()
	if len(seeds) != 2 {
		t.Fatalf("got %d seeds, want 2", len(seeds))
	}
	if seeds[0].URL != "https://www.sunrom.com/c/switches" {
		t.Errorf("seed url = %q", seeds[0].URL)
	}
}

func TestSunromProducts(t *testing.T) {
	markup := `<html><body>
<div class="category-index">
  <div class="row">
    <a class="thumbnail" href="/p/tactile-switch-12mm"><img src="/i/1.jpg"></a>
    <a class="thumbnail" href="/p/rocker-switch"><img src="/i/2.jpg"></a>
  </div>
</div>
</body></html>`
	page := types.NewPage("https://www.sunrom.com/c/switches", []byte(markup))
	cands := sunromExtractor().Products(page)

	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].URL != "https://www.sunrom.com/p/tactile-switch-12mm" {
		t.Errorf("url = %q", cands[0].URL)
	}
	// Listing exposes URLs only; names come from the detail page.
	if cands[0].Name != "" {
		t.Errorf("name = %q, want empty before detail", cands[0].Name)
	}
}

func TestSunromPagination(t *testing.T) {
	active := `<html><body><ul class="pagination">
<li class="next"><a href="/c/switches?page=2">&raquo;</a></li>
</ul></body></html>`
	page := types.NewPage("https://www.sunrom.com/c/switches", []byte(active))
	if next := sunromExtractor().NextPageURL(page); next != "https://www.sunrom.com/c/switches?page=2" {
		t.Errorf("next = %q", next)
	}

	disabled := `<html><body><ul class="pagination">
<li class="next disabled"><a href="#">&raquo;</a></li>
</ul></body></html>`
	page = types.NewPage("https://www.sunrom.com/c/switches?page=9", []byte(disabled))
	if next := sunromExtractor().NextPageURL(page); next != "" {
		t.Errorf("next = %q, want empty on the last page", next)
	}
}

func TestSunromProductDetail(t *testing.T) {
	markup := `<html><body>
<h1>Tactile Switch 12x12mm</h1>
<img id="main_img" src="/images/large/1234.jpg">
<div class="panel-footer"><span class="label-product">4500</span></div>
<div class="leadtime">Stock: <b>In Stock, Dispatch within 1-2 days</b></div>
</body></html>`
	page := types.NewPage("https://www.sunrom.com/p/tactile-switch-12mm", []byte(markup))
	c := types.Candidate{URL: page.URL}

	sunromExtractor().ProductDetail(page, &c)

	if c.Name != "Tactile Switch 12x12mm" {
		t.Errorf("name = %q", c.Name)
	}
	if c.ImageURL != "https://www.sunrom.com/images/large/1234.jpg" {
		t.Errorf("image = %q", c.ImageURL)
	}
	// Raw paise value; the normalizer divides by the site's price divisor.
	if c.Price != "4500" {
		t.Errorf("price = %q", c.Price)
	}
	if c.Stock != "In Stock, Dispatch within 1-2 days" {
		t.Errorf("stock = %q", c.Stock)
	}
	if !c.StockKnown {
		t.Error("StockKnown should be set")
	}
}

func TestSunromSubcategories(t *testing.T) {
	markup := `<html><body>
<div class="panel-body">
  <div class="row">
    <div class="col-md-3"><a href="/c/switches/tactile">Tactile Switches</a></div>
    <div class="col-md-3"><a href="/c/switches/rocker">Rocker Switches</a></div>
  </div>
</div>
</body></html>`
	page := types.NewPage("https://www.sunrom.com/c/switches", []byte(markup))
	subs := sunromExtractor().Subcategories(page)

	if len(subs) != 2 {
		t.Fatalf("got %d subcategories, want 2", len(subs))
	}
	if subs[0].Name != "Tactile Switches" {
		t.Errorf("name = %q", subs[0].Name)
	}
}
