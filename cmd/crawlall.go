package cmd

import (
	"github.com/spf13/cobra"

	"cafepick/menuworker/logger"
)

var flagParallel bool

var crawlAllCmd = &cobra.Command{
	Use:   "crawl-all",
	Short: "Crawl every registered brand",
	Args:  cobra.NoArgs,
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
		failed := 0
		for _, res := range reg.RunAll(cmd.Context(), flagParallel) {
			if err := processResult(cmd.Context(), st, res); err != nil {
				logger.LogError("crawl-all", err, "Brand %s failed", res.Brand)
				failed++
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		if failed > 0 {
			logger.Warn("%d of %d brands failed", failed, len(reg.Brands()))
		}
		return firstErr
	},
}

func init() {
	crawlAllCmd.Flags().BoolVar(&flagParallel, "parallel", false,
		"crawl brands concurrently instead of one at a time")
	rootCmd.AddCommand(crawlAllCmd)
}
