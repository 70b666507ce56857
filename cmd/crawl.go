package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cafepick/menuworker/exporter"
	"cafepick/menuworker/internal/crawler"
	"cafepick/menuworker/services/categorizer"
	"cafepick/menuworker/services/store"
)

var (
	flagOut        string
	flagUpload     bool
	flagDryRun     bool
	flagWithImages bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <brand>...",
	Short: "Crawl one or more brands",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, b := newRegistry(cmd.Context())
		defer b.Close()

		st, err := openStore()
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		var firstErr error
		for _, brand := range args {
			if !reg.Has(brand) {
				return fmt.Errorf("unknown brand %q, see 'menuworker list'", brand)
			}
			if err := processResult(cmd.Context(), st, reg.Run(cmd.Context(), brand)); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	},
}

func init() {
	for _, c := range []*cobra.Command{crawlCmd, crawlAllCmd} {
		c.Flags().StringVar(&flagOut, "out", "", "output directory for JSON exports (default from MENU_OUTPUT_DIR)")
		c.Flags().BoolVar(&flagUpload, "upload", false, "save products to the redis store")
		c.Flags().BoolVar(&flagDryRun, "dry-run", false, "with --upload, report store changes without writing")
		c.Flags().BoolVar(&flagWithImages, "with-images", false, "with --upload, run image optimization")
	}
	rootCmd.AddCommand(crawlCmd)
}

// openStore builds the product store when uploading was requested
func openStore() (store.Store, error) {
	if !flagUpload {
		return nil, nil
	}
	return store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.RedisKeyPrefix, nil)
}

// processResult categorizes, exports and optionally uploads one brand's
// crawl output.
func processResult(ctx context.Context, st store.Store, res crawler.RunResult) error {
	if res.Err != nil {
		return fmt.Errorf("%s: %w", res.Brand, res.Err)
	}

	products := categorizer.New().Apply(res.Products)

	outDir := flagOut
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if _, err := exporter.WriteProducts(outDir, res.Brand, products); err != nil {
		return fmt.Errorf("%s: %w", res.Brand, err)
	}

	if st != nil {
		if _, err := st.Save(ctx, res.Brand, products, store.Options{
			DryRun:     flagDryRun,
			WithImages: flagWithImages,
		}); err != nil {
			return fmt.Errorf("%s: %w", res.Brand, err)
		}
	}
	return nil
}
