package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Engine.MaxDepth < 1 {
		return fmt.Errorf("engine.max_depth must be >= 1, got %d", cfg.Engine.MaxDepth)
	}
	if cfg.Engine.MaxRetries < 0 {
		return fmt.Errorf("engine.max_retries must be >= 0, got %d", cfg.Engine.MaxRetries)
	}
	if cfg.Engine.PolitenessDelay < 0 {
		return fmt.Errorf("engine.politeness_delay must be >= 0")
	}
	if cfg.Engine.DetailConcurrency < 1 {
		return fmt.Errorf("engine.detail_concurrency must be >= 1, got %d", cfg.Engine.DetailConcurrency)
	}
	if cfg.Engine.SiteTimeout <= 0 {
		return fmt.Errorf("engine.site_timeout must be > 0")
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Index.Backend != "algolia" && cfg.Index.Backend != "mongo" {
		return fmt.Errorf("index.backend must be 'algolia' or 'mongo', got %q", cfg.Index.Backend)
	}
	if cfg.Index.BatchSize < 1 {
		return fmt.Errorf("index.batch_size must be >= 1, got %d", cfg.Index.BatchSize)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	for name, site := range cfg.Sites {
		if !site.Enabled {
			continue
		}
		if err := ValidateURL(site.BaseURL); err != nil {
			return fmt.Errorf("sites.%s.base_url: %w", name, err)
		}
		if site.PriceDivisor != 1 && site.PriceDivisor != 100 {
			return fmt.Errorf("sites.%s.price_divisor must be 1 or 100, got %d", name, site.PriceDivisor)
		}
		if site.EmptyStock != "in_stock" && site.EmptyStock != "unknown" {
			return fmt.Errorf("sites.%s.empty_stock must be 'in_stock' or 'unknown', got %q", name, site.EmptyStock)
		}
		if site.Delay < 0 {
			return fmt.Errorf("sites.%s.delay must be >= 0", name)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a crawl base.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
