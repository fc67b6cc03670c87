package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for electrodex.
type Config struct {
	Engine   EngineConfig          `mapstructure:"engine"   yaml:"engine"`
	Fetcher  FetcherConfig         `mapstructure:"fetcher"  yaml:"fetcher"`
	Index    IndexConfig           `mapstructure:"index"    yaml:"index"`
	Snapshot SnapshotConfig        `mapstructure:"snapshot" yaml:"snapshot"`
	Logging  LoggingConfig         `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig         `mapstructure:"metrics"  yaml:"metrics"`
	Sites    map[string]SiteConfig `mapstructure:"sites"    yaml:"sites"`
}

// EngineConfig controls one site's traversal engine.
type EngineConfig struct {
	MaxDepth          int           `mapstructure:"max_depth"          yaml:"max_depth"`
	MaxRetries        int           `mapstructure:"max_retries"        yaml:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"        yaml:"retry_delay"`
	PolitenessDelay   time.Duration `mapstructure:"politeness_delay"   yaml:"politeness_delay"`
	DetailConcurrency int           `mapstructure:"detail_concurrency" yaml:"detail_concurrency"`
	DetailCacheSize   int           `mapstructure:"detail_cache_size"  yaml:"detail_cache_size"`
	SiteTimeout       time.Duration `mapstructure:"site_timeout"       yaml:"site_timeout"`
	UserAgents        []string      `mapstructure:"user_agents"        yaml:"user_agents"`
}

// FetcherConfig controls the HTTP fetcher.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
}

// IndexConfig selects and configures the search index backend.
type IndexConfig struct {
	Backend   string        `mapstructure:"backend"    yaml:"backend"` // algolia or mongo
	BatchSize int           `mapstructure:"batch_size" yaml:"batch_size"`
	Algolia   AlgoliaConfig `mapstructure:"algolia"    yaml:"algolia"`
	Mongo     MongoConfig   `mapstructure:"mongo"      yaml:"mongo"`
}

// AlgoliaConfig holds hosted search index credentials.
type AlgoliaConfig struct {
	AppID     string `mapstructure:"app_id"     yaml:"app_id"`
	APIKey    string `mapstructure:"api_key"    yaml:"api_key"`
	IndexName string `mapstructure:"index_name" yaml:"index_name"`
}

// MongoConfig holds the self-hosted index backend settings.
type MongoConfig struct {
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// SnapshotConfig controls the per-run backup file.
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir"     yaml:"dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr"    yaml:"addr"`
}

// SiteConfig is one retailer's crawl settings. BaseURL and the normalization
// conventions have per-site defaults; anything here can be overridden from
// the config file without touching extractor code.
type SiteConfig struct {
	Enabled bool   `mapstructure:"enabled"  yaml:"enabled"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Delay overrides the engine politeness delay for this site (0 = inherit).
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`

	// Categories seeds traversal for sites without a usable category index
	// page. Slugs are resolved against BaseURL by the site's extractor.
	Categories []string `mapstructure:"categories" yaml:"categories"`

	// PriceDivisor converts site-native price units to rupees. 100 for
	// sources that publish minor units (paise), 1 otherwise.
	PriceDivisor int `mapstructure:"price_divisor" yaml:"price_divisor"`

	// EmptyStock is the site's empty-stock convention: "in_stock" or
	// "unknown". The markup of these storefronts genuinely disagrees here.
	EmptyStock string `mapstructure:"empty_stock" yaml:"empty_stock"`

	// DropOnDetailFailure drops a product whose detail-page fetch failed
	// instead of keeping it with unknown stock/price.
	DropOnDetailFailure bool `mapstructure:"drop_on_detail_failure" yaml:"drop_on_detail_failure"`

	SourceImage string `mapstructure:"source_image" yaml:"source_image"`
}

// DefaultConfig returns a Config with per-site defaults for all six sources.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxDepth:          5,
			MaxRetries:        2,
			RetryDelay:        2 * time.Second,
			PolitenessDelay:   1 * time.Second,
			DetailConcurrency: 4,
			DetailCacheSize:   512,
			SiteTimeout:       2 * time.Hour,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  30 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Index: IndexConfig{
			Backend:   "algolia",
			BatchSize: 100,
			Algolia: AlgoliaConfig{
				IndexName: "products",
			},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "electrodex",
				Collection: "products",
			},
		},
		Snapshot: SnapshotConfig{
			Enabled: true,
			Dir:     "./backups",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		Sites: map[string]SiteConfig{
			"robu": {
				Enabled:      true,
				BaseURL:      "https://robu.in",
				PriceDivisor: 1,
				EmptyStock:   "in_stock",
				SourceImage:  "https://robu.in/wp-content/uploads/2020/03/robu-new-logo.png",
			},
			"robokits": {
				Enabled:      true,
				BaseURL:      "https://robokits.co.in",
				PriceDivisor: 1,
				EmptyStock:   "unknown",
				SourceImage:  "https://robokits.co.in/includes/templates/robokits/images/uploads/Robokits_Logo_320x80_opt_trns_1587550612.png",
			},
			"zbotic": {
				Enabled:      true,
				BaseURL:      "https://zbotic.in",
				PriceDivisor: 1,
				EmptyStock:   "in_stock",
				SourceImage:  "https://zbotic.in/wp-content/uploads/2024/01/l1.png",
			},
			"sunrom": {
				Enabled:      true,
				BaseURL:      "https://www.sunrom.com",
				PriceDivisor: 100, // prices published in paise
				EmptyStock:   "unknown",
				SourceImage:  "https://www.sunrom.com/css/logo.gif",
				Categories: []string{
					"embedded-solutions",
					"connectors",
					"switches",
					"passive-components",
					"active-components",
					"power-supply",
					"optoelectronics",
					"prototyping-testing",
					"circuit-protection",
					"hardware-1",
					"machine-tools",
				},
			},
			"robocraze": {
				Enabled:      true,
				BaseURL:      "https://robocraze.com",
				PriceDivisor: 1,
				EmptyStock:   "unknown",
				SourceImage:  "https://robocraze.com/cdn/shop/files/2_f1a07d5b-b76f-447a-98c4-bfe3eff6348c.png?v=1702463243&width=200",
			},
			"quartz": {
				Enabled:      true,
				BaseURL:      "https://quartzcomponents.com",
				Delay:        500 * time.Millisecond,
				PriceDivisor: 100, // prices published in minor units
				EmptyStock:   "unknown",
				SourceImage:  "https://quartzcomponents.com/cdn/shop/files/358x92.png",
				Categories: []string{
					"robotics",
					"components",
					"development-boards",
					"displays",
					"sensors",
					"wireless",
					"audio",
					"modules",
					"ics",
					"power",
					"power-batteries",
					"motors",
					"switches-connectors",
					"soldering",
					"mechanical-tool",
					"test-measurement",
					"smd-components",
					"wires-cables",
					"3D-printer-parts",
					"drone-components",
				},
			},
		},
	}
}
