package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("ELECTRODEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("electrodex")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".electrodex"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Index credentials come from the environment when not set in the file.
	if cfg.Index.Algolia.AppID == "" {
		cfg.Index.Algolia.AppID = os.Getenv("ALGOLIA_APP_ID")
	}
	if cfg.Index.Algolia.APIKey == "" {
		cfg.Index.Algolia.APIKey = os.Getenv("ALGOLIA_API_KEY")
	}
	if name := os.Getenv("ALGOLIA_INDEX_NAME"); name != "" {
		cfg.Index.Algolia.IndexName = name
	}

	return cfg, nil
}

// setDefaults registers default values in viper so partial config files only
// override what they mention.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("engine.max_depth", cfg.Engine.MaxDepth)
	v.SetDefault("engine.max_retries", cfg.Engine.MaxRetries)
	v.SetDefault("engine.retry_delay", cfg.Engine.RetryDelay)
	v.SetDefault("engine.politeness_delay", cfg.Engine.PolitenessDelay)
	v.SetDefault("engine.detail_concurrency", cfg.Engine.DetailConcurrency)
	v.SetDefault("engine.detail_cache_size", cfg.Engine.DetailCacheSize)
	v.SetDefault("engine.site_timeout", cfg.Engine.SiteTimeout)
	v.SetDefault("engine.user_agents", cfg.Engine.UserAgents)

	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)

	v.SetDefault("index.backend", cfg.Index.Backend)
	v.SetDefault("index.batch_size", cfg.Index.BatchSize)
	v.SetDefault("index.algolia.index_name", cfg.Index.Algolia.IndexName)
	v.SetDefault("index.mongo.uri", cfg.Index.Mongo.URI)
	v.SetDefault("index.mongo.database", cfg.Index.Mongo.Database)
	v.SetDefault("index.mongo.collection", cfg.Index.Mongo.Collection)

	v.SetDefault("snapshot.enabled", cfg.Snapshot.Enabled)
	v.SetDefault("snapshot.dir", cfg.Snapshot.Dir)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
}
