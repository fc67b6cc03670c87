package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/electrodex/electrodex/internal/config"
	"github.com/electrodex/electrodex/internal/fetcher"
	"github.com/electrodex/electrodex/internal/index"
	"github.com/electrodex/electrodex/internal/metrics"
	"github.com/electrodex/electrodex/internal/run"
)

var (
	cfgFile  string
	verbose  bool
	schedule string
	dryRun   bool
	only     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "electrodex",
		Short: "electrodex — electronics retailer crawl and search-index sync",
		Long: `electrodex crawls Indian electronics retailers, normalizes their catalogs
into a uniform product schema, and reconciles the result against a search
index, writing only what changed.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(sitesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Crawl all enabled sites and reconcile the index",
		RunE:  runPipeline,
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression; run repeatedly instead of once")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "crawl and snapshot, skip index reconciliation")
	cmd.Flags().StringVar(&only, "sites", "", "comma-separated subset of sites to crawl")

	return cmd
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applySiteFilter(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("metrics server listening", "addr", cfg.Metrics.Addr)
	}

	f, err := fetcher.New(cfg, m, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()

	var idx index.Index
	if !dryRun {
		idx, err = index.Open(ctx, cfg.Index, logger)
		if err != nil {
			return fmt.Errorf("open index: %w", err)
		}
		defer idx.Close(context.Background())
	}

	orch := run.New(cfg, f, idx, m, logger)

	execute := func() {
		summary, err := orch.Run(ctx)
		if err != nil {
			logger.Error("run failed", "error", err)
			return
		}
		printSummary(summary)
	}

	if schedule == "" {
		execute()
		return ctx.Err()
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, execute); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	logger.Info("scheduler started", "schedule", schedule)
	c.Start()

	<-ctx.Done()
	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

// sitesCmd creates the "sites" subcommand.
func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List configured sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(cfg.Sites))
			for name := range cfg.Sites {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sc := cfg.Sites[name]
				state := "enabled"
				if !sc.Enabled {
					state = "disabled"
				}
				fmt.Printf("%-12s %-9s %s\n", name, state, sc.BaseURL)
			}
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("electrodex %s\n", config.Version)
		},
	}
}

// applySiteFilter disables every site not named in --sites.
func applySiteFilter(cfg *config.Config) {
	if only == "" {
		return
	}
	wanted := make(map[string]bool)
	for _, name := range strings.Split(only, ",") {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = true
		}
	}
	for name, sc := range cfg.Sites {
		sc.Enabled = sc.Enabled && wanted[name]
		cfg.Sites[name] = sc
	}
}

// setupLogger creates the structured logger from config, with --verbose
// forcing debug level.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func printSummary(s *run.Summary) {
	fmt.Printf("\nRun complete in %s\n", s.Finished.Sub(s.Started).Round(time.Second))
	for _, site := range s.Sites {
		status := "ok"
		if site.RootFailed {
			status = "root failed"
		}
		fmt.Printf("  %-12s %5d products, %4d pages, %3d errors (%s)\n",
			site.Site, site.Products, site.PagesFetched, site.CrawlErrors, status)
	}
	if s.SnapshotPath != "" {
		fmt.Printf("  snapshot: %s\n", s.SnapshotPath)
	}
	if s.Reconcile != nil {
		fmt.Printf("  index: %d inserted, %d updated, %d unchanged, %d failed batches\n",
			s.Reconcile.Inserted, s.Reconcile.Updated, s.Reconcile.Unchanged, s.Reconcile.FailedBatches)
	}
}
