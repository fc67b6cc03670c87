package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDefaultConfigSites(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Sites) != 6 {
		t.Fatalf("got %d sites, want 6", len(cfg.Sites))
	}
	for name, sc := range cfg.Sites {
		if sc.BaseURL == "" {
			t.Errorf("site %s has no base URL", name)
		}
		if sc.PriceDivisor != 1 && sc.PriceDivisor != 100 {
			t.Errorf("site %s price divisor = %d", name, sc.PriceDivisor)
		}
	}
	if cfg.Sites["sunrom"].PriceDivisor != 100 {
		t.Error("sunrom publishes paise and needs divisor 100")
	}
	if len(cfg.Sites["quartz"].Categories) == 0 {
		t.Error("quartz needs static category seeds")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load without file: %v", err)
	}
	if cfg.Engine.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want default 5", cfg.Engine.MaxDepth)
	}
	if cfg.Index.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want default 100", cfg.Index.BatchSize)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/electrodex.yaml"); err == nil {
		t.Error("explicitly named missing file should fail")
	}
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "electrodex.yaml")
	yaml := `
engine:
  max_depth: 3
  politeness_delay: 250ms
sites:
  robu:
    enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.Engine.MaxDepth)
	}
	if cfg.Engine.PolitenessDelay != 250*time.Millisecond {
		t.Errorf("PolitenessDelay = %s, want 250ms", cfg.Engine.PolitenessDelay)
	}
	if cfg.Sites["robu"].Enabled {
		t.Error("file should disable robu")
	}
	// Untouched keys keep their defaults.
	if cfg.Engine.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want default 2", cfg.Engine.MaxRetries)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.Engine.MaxDepth = 0 }},
		{"negative retries", func(c *Config) { c.Engine.MaxRetries = -1 }},
		{"bad divisor", func(c *Config) {
			sc := c.Sites["robu"]
			sc.PriceDivisor = 10
			c.Sites["robu"] = sc
		}},
		{"bad empty-stock policy", func(c *Config) {
			sc := c.Sites["robu"]
			sc.EmptyStock = "maybe"
			c.Sites["robu"] = sc
		}},
		{"unknown backend", func(c *Config) { c.Index.Backend = "redis" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://robu.in"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	if err := ValidateURL("not a url"); err == nil {
		t.Error("invalid URL accepted")
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("non-http scheme accepted")
	}
}
