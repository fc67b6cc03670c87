package extract

import (
	"testing"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/types"
)

func quartzExtractor() *Quartz {
	return NewQuartz(config.SiteConfig{
		BaseURL:    "https://quartzcomponents.com",
		Categories: []string{"sensors"},
	})
}

func TestQuartzSeedCategories(t *testing.T) {
	seeds := quartzExtractor().SeedCategories()
	if len(seeds) != 1 {
		t.Fatalf("got %d seeds, want 1", len(seeds))
	}
	if seeds[0].URL != "https://quartzcomponents.com/collections/sensors" {
		t.Errorf("seed url = %q", seeds[0].URL)
	}
}

func TestQuartzSubcategoryTitleTrimsCount(t *testing.T) {
	markup := `<html><body>
<a class="subcat-grid-link" href="/collections/imu-sensors">
  <div class="subcat-grid-link__title">IMU Sensors (42)</div>
</a>
</body></html>`
	page := types.NewPage("https://quartzcomponents.com/collections/sensors", []byte(markup))
	subs := quartzExtractor().Subcategories(page)

	if len(subs) != 1 {
		t.Fatalf("got %d subcategories, want 1", len(subs))
	}
	if subs[0].Name != "IMU Sensors" {
		t.Errorf("name = %q, want item count suffix trimmed", subs[0].Name)
	}
}

func TestQuartzProductDetail(t *testing.T) {
	markup := `<html><body>
<span class="product-single__price">&#8377;249.00</span>
<div class="product_inventory"><span>12 left</span></div>
<div class="product-single__photo">
  <img class="product-featured-img" src="//quartzcomponents.com/cdn/shop/products/mpu6050.jpg">
</div>
</body></html>`
	page := types.NewPage("https://quartzcomponents.com/products/mpu6050", []byte(markup))
	c := types.Candidate{Name: "MPU6050", URL: page.URL}

	quartzExtractor().ProductDetail(page, &c)

	if c.Stock != "12 left" {
		t.Errorf("stock = %q", c.Stock)
	}
	if c.ImageURL != "https://quartzcomponents.com/cdn/shop/products/mpu6050.jpg" {
		t.Errorf("image = %q, want protocol-relative src resolved", c.ImageURL)
	}
	if c.Price != "₹249.00" {
		t.Errorf("price = %q", c.Price)
	}
}
