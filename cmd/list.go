package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cafepick/menuworker/internal/sites"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every supported brand",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, def := range sites.Definitions() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s (%s)\n", def.Brand, def.StartURL, def.Strategy)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
