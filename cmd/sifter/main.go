// Package main provides the CLI entry point for sifter.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forrest-aleq/sifter/internal/config"
	"github.com/forrest-aleq/sifter/internal/core"
	"github.com/forrest-aleq/sifter/internal/logging"
	"github.com/forrest-aleq/sifter/internal/web"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 1
	ExitFilterError  = 2
	ExitRuntimeError = 3
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Build information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sifter",
	Short: "sifter - CSV domain-extension filter",
	Long: `sifter keeps only the rows of a CSV whose "name" column ends with
one of the given domain extensions, and reports size/row statistics.

Examples:
  # Filter a file locally, keeping .com and .net domains
  sifter filter domains.csv filtered.csv com,net

  # Run the upload service
  sifter serve`,
	Version: version + " (" + commit + ")",
}

var filterCmd = &cobra.Command{
	Use:   "filter <input.csv> <output.csv> [extensions]",
	Short: "Filter a local CSV file by domain extension",
	Long: `Filter a local CSV file, keeping only rows whose "name" value ends
with one of the comma-separated extensions. Extensions may be given
with or without a leading dot; matching is case-insensitive.

Exit codes:
  0 - Filtering succeeded
  1 - Usage error
  2 - Filtering failed

Examples:
  sifter filter domains.csv filtered.csv com,net,org
  sifter filter domains.csv filtered.csv .io`,
	Args: cobra.RangeArgs(2, 3),
	Run:  runFilter,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the CSV filter upload service",
	Long: `Run the HTTP service exposing the filter engine on POST /api/filter.

Configuration comes from environment variables (a .env file is loaded
when present); see internal/config for the full list. The most common:
  SERVER_PORT (or PORT)   - listen port (default 8080)
  UPLOAD_MAX_FILE_SIZE    - upload cap in bytes (default 100MB)
  LOG_LEVEL / LOG_FORMAT  - logging configuration`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(serveCmd)
}

// applyVerbosity adjusts the log level after Setup according to the
// global flags.
func applyVerbosity() {
	if verbose {
		logging.SetLevel(slog.LevelDebug)
	} else if quiet {
		logging.SetLevel(slog.LevelError)
	}
}

func runFilter(_ *cobra.Command, args []string) {
	logging.Setup("info", "text")
	applyVerbosity()

	inputPath, outputPath := args[0], args[1]
	var extensions []string
	if len(args) == 3 {
		extensions = strings.Split(args[2], ",")
	}

	result, err := core.Filter(inputPath, outputPath, extensions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Filtering failed: %v\n", err)
		os.Exit(ExitFilterError)
	}

	fmt.Printf("Filtering complete. Processed %d rows.\n", result.TotalRows)
	fmt.Printf("Kept %d rows with extensions: %s\n",
		result.FilteredRows, strings.Join(result.ExtensionsIncluded, ", "))
	fmt.Printf("Removed %d rows\n", result.RowsRemoved)
	fmt.Printf("Output saved to: %s\n", outputPath)
}

func runServe(_ *cobra.Command, _ []string) {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(ExitRuntimeError)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	applyVerbosity()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	server := web.NewServer(cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped")
			return
		}
		slog.Error("server error", "error", err)
		os.Exit(ExitRuntimeError)
	}
}
