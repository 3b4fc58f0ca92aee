package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"filmarchiv/internal/extractor"
	"filmarchiv/internal/history"
	"filmarchiv/internal/media"
	"filmarchiv/internal/ui"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url...>",
	Short: "Extract the playlist of one or more film pages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  extractRun,
}

// extractRun extracts every URL in turn. A failing URL is reported and the
// remaining ones still run; the command fails if any extraction failed.
func extractRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	styled := out == os.Stdout && ui.IsTerminal(os.Stdout)
	printer := ui.NewPrinter(out, styled)
	errPrinter := ui.NewPrinter(cmd.ErrOrStderr(), styled)

	opts := extractOptions()

	var results []*media.Playlist
	failed := 0
	for _, rawURL := range args {
		pl, err := extractor.Extract(cmd.Context(), rawURL, opts)
		if err != nil {
			failed++
			errPrinter.Error(rawURL, err)
			continue
		}
		debugf("extracted %s: %d entries", pl.ID, len(pl.Entries))

		if cfg.History {
			if err := history.Save(history.FromPlaylist(pl, time.Now())); err != nil {
				debugf("saving history failed: %v", err)
			}
		}

		if !jsonOutput() {
			printer.Playlist(pl)
		}
		results = append(results, pl)
	}

	if jsonOutput() && len(results) > 0 {
		var v any = results
		if len(args) == 1 {
			v = results[0]
		}
		if err := ui.JSON(out, v); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	}

	if failed > 0 {
		if len(args) == 1 {
			return fmt.Errorf("extraction failed")
		}
		return fmt.Errorf("%d of %d extractions failed", failed, len(args))
	}
	return nil
}
