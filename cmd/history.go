package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filmarchiv/internal/history"
	"filmarchiv/internal/ui"
)

var (
	flagHistoryLimit  int
	flagHistoryClear  bool
	flagHistoryRemove string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously extracted films",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all history entries")
	historyCmd.Flags().StringVar(&flagHistoryRemove, "remove", "", "Delete one entry, given as <extractor>/<id>")
}

func historyRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if flagHistoryClear && flagHistoryRemove != "" {
		return fmt.Errorf("--clear and --remove cannot be combined")
	}

	if flagHistoryClear {
		n, err := history.Clear()
		if err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintf(out, "Removed %d history entries.\n", n)
		return nil
	}

	if flagHistoryRemove != "" {
		name, id, ok := strings.Cut(flagHistoryRemove, "/")
		if !ok || name == "" || id == "" {
			return fmt.Errorf("invalid history key %q, want <extractor>/<id>", flagHistoryRemove)
		}
		removed, err := history.Remove(name, id)
		if err != nil {
			return fmt.Errorf("removing history entry: %w", err)
		}
		if !removed {
			return fmt.Errorf("no history entry %s", flagHistoryRemove)
		}
		fmt.Fprintf(out, "Removed %s from history.\n", flagHistoryRemove)
		return nil
	}

	entries, err := history.Load(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	debugf("loaded %d history entries", len(entries))

	if jsonOutput() {
		if entries == nil {
			return ui.JSON(out, []any{})
		}
		return ui.JSON(out, entries)
	}

	ui.NewPrinter(out, false).Lines(history.FormatForDisplay(entries), "No history entries found.")
	return nil
}
