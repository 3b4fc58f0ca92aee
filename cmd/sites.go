package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmarchiv/internal/extractor"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List supported sites",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, e := range extractor.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", e.Name(), e.Description())
		}
	},
}
