// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"filmarchiv/internal/config"
	"filmarchiv/internal/extractor"
	"filmarchiv/internal/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagJSON      bool
	flagDebug     bool
	flagNoHistory bool
	flagTimeout   time.Duration
	flagUserAgent string
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "filmarchiv [url...]",
	Short: "Extract film metadata and media URLs from the DHM film archive",
	Long: `filmarchiv resolves film pages of the Deutsches Historisches Museum
film archive (dhm.de/filmarchiv) into their playlist: title, description,
duration, thumbnail and the media URLs a downloader can fetch.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return extractRun(cmd, args)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "filmarchiv %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record extractions in the history")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "HTTP request timeout (default from config, 30s)")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "User-Agent header for HTTP requests")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagTimeout != 0 {
		cfg.Timeout = flagTimeout.String()
	}
	if flagUserAgent != "" {
		cfg.UserAgent = flagUserAgent
	}
	if flagJSON {
		cfg.Output = "json"
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	httputil.SetUserAgent(cfg.UserAgent)

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetFlags(log.LstdFlags)
		log.SetPrefix("[filmarchiv] ")
	} else {
		log.SetFlags(0)
	}

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}

func jsonOutput() bool {
	return cfg != nil && strings.EqualFold(cfg.Output, "json")
}

// extractOptions builds the options every extraction runs with.
// Tests replace it to inject an HTTP client.
var extractOptions = func() extractor.Options {
	return extractor.Options{
		Timeout: cfg.TimeoutDuration(),
		Logf:    debugf,
	}
}
