// Package cmd wires the crawler, store and exporter into the CLI
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cafepick/menuworker/config"
	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/crawler"
	"cafepick/menuworker/internal/sites"
	"cafepick/menuworker/logger"
	"cafepick/menuworker/services/cache"
)

var (
	cfg *config.Config

	flagTestMode bool
	flagHeadful  bool
)

var rootCmd = &cobra.Command{
	Use:           "menuworker",
	Short:         "Crawls café beverage menus and nutrition data",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments use the environment directly
		envLoaded := godotenv.Load() == nil
		logger.Init()
		if envLoaded {
			logger.Info("Loaded .env file")
		}

		cfg = config.Load()
		if flagTestMode {
			cfg.EnableTestMode()
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagTestMode, "test-mode", false,
		"cap categories, products per page and requests for a fast verification run")
	rootCmd.PersistentFlags().BoolVar(&flagHeadful, "headful", false,
		"run the browser with a visible window for selector debugging")
}

// Execute runs the CLI until completion or the first interrupt
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Command failed: %v", err)
		os.Exit(1)
	}
}

// limits translates the run configuration into per-crawl caps
func limits() crawler.Limits {
	l := crawler.Limits{
		TestMode:           cfg.TestMode,
		MaxProductsPerPage: cfg.MaxProductsPerPage,
		MaxRequests:        cfg.MaxRequestsPerRun,
	}
	if cfg.TestMode {
		l.MaxCategories = 2
	}
	return l
}

// newRegistry builds the brand registry backed by one shared browser.
// The caller closes the browser when the run is done.
func newRegistry(ctx context.Context) (*crawler.Registry, *browser.ChromeBrowser) {
	var cooldown cache.CacheService
	if cfg.MemcacheAddr != "" {
		cooldown = cache.NewMemcacheService(cfg.MemcacheAddr)
	}
	reg := crawler.NewRegistry(cooldown)

	opts := browser.DefaultOptions()
	opts.Headless = !flagHeadful
	b := browser.NewChromeBrowser(ctx, opts)

	sites.RegisterAll(reg, sites.Deps{Browser: b, Limits: limits()})
	return reg, b
}
