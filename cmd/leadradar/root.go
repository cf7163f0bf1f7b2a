package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"leadradar/pkg/config"
	"leadradar/pkg/engine"
	"leadradar/pkg/export"
	"leadradar/pkg/fetch"
	"leadradar/pkg/logging"
	"leadradar/pkg/schema"
)

func newRootCmd() *cobra.Command {
	var cfg config.Runtime

	cmd := &cobra.Command{
		Use:           "leadradar",
		Short:         "Build sales-lead records from business registry CSV dumps",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.InputDir, "input", "", "input directory with source CSV files (required)")
	flags.StringVar(&cfg.Output, "output", "", "output CSV path (required)")
	flags.StringVar(&cfg.Country, "country", "BE", "country code (currently only BE)")
	flags.StringVar(&cfg.City, "city", "", "case-insensitive substring filter on city")
	flags.StringVar(&cfg.Query, "query", "", "keyword filter on company name or sector")
	flags.StringVar(&cfg.Postcodes, "postcodes", "", "comma-separated postcode list (empty: built-in set)")
	flags.IntVar(&cfg.Months, "months", 18, "maximum age in months")
	flags.IntVar(&cfg.MinScore, "min-score", 40, "minimum score for output")
	flags.IntVar(&cfg.Limit, "limit", 200, "maximum records in output (0: unlimited)")
	flags.IntVar(&cfg.MaxBadLines, "max-bad-lines", 1000, "malformed lines tolerated per source file")
	flags.BoolVar(&cfg.Lite, "lite", false, "skip NACE processing and build leads from identity + contact only")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "log diagnostic counters and input detection info")
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "validate input and report the count without writing output")
	flags.BoolVar(&cfg.DebugStats, "debug-stats", false, "print debug statistics about the output records")
	flags.StringVar(&cfg.DriveZipURL, "input-drive-zip", "", "Google Drive link to a ZIP with source CSV files")
	flags.StringVar(&cfg.DownloadDir, "download-dir", "data/downloads", "local directory for downloaded and extracted files")
	flags.StringVar(&cfg.XLSXPath, "xlsx", "", "also write an XLSX workbook to this path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	cobra.CheckErr(cmd.MarkFlagRequired("input"))
	cobra.CheckErr(cmd.MarkFlagRequired("output"))

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Runtime) error {
	// A .env next to the binary may supply defaults; absence is fine.
	_ = godotenv.Load()

	logging.Setup(cfg.LogLevel, "text")
	log := slog.Default().With("run_id", uuid.NewString())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	inputDir, err := resolveInputDir(cmd, cfg, log)
	if err != nil {
		return err
	}

	minScore := cfg.MinScore
	if cfg.Lite {
		minScore = 0
	}

	leads, _, err := engine.BuildRecords(inputDir, engine.Options{
		Postcodes:   config.ParsePostcodes(cfg.Postcodes),
		MaxMonths:   cfg.Months,
		MinScore:    minScore,
		Limit:       cfg.Limit,
		City:        cfg.City,
		Query:       cfg.Query,
		Lite:        cfg.Lite,
		Verbose:     cfg.Verbose,
		MaxBadLines: cfg.MaxBadLines,
		Log:         log,
	})
	if err != nil {
		return err
	}
	total := len(leads)

	if cfg.DebugStats {
		printDebugStats(cmd, leads)
	}

	if cfg.DryRun {
		cmd.Printf("Dry run complete: %d records would be written to %s\n", total, cfg.Output)
		return nil
	}

	if _, err := export.ExportLeads(cfg.Output, leads, total, cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.XLSXPath != "" {
		if err := export.WriteXLSX(cfg.XLSXPath, leads); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		log.Info("wrote XLSX workbook", "path", cfg.XLSXPath)
	}
	return nil
}

// resolveInputDir returns the extracted ZIP directory when a Drive link is
// given and the download succeeds, falling back to --input (with a warning)
// when it fails but the local directory exists.
func resolveInputDir(cmd *cobra.Command, cfg *config.Runtime, log *slog.Logger) (string, error) {
	if cfg.DriveZipURL == "" {
		return cfg.InputDir, nil
	}

	zipPath := filepath.Join(cfg.DownloadDir, "registry_dump.zip")
	extractedDir := filepath.Join(cfg.DownloadDir, "extracted")

	err := func() error {
		downloadURL, err := fetch.DriveDownloadURL(cfg.DriveZipURL)
		if err != nil {
			return err
		}
		if err := fetch.DownloadFile(cmd.Context(), downloadURL, zipPath); err != nil {
			return err
		}
		return fetch.ExtractZip(zipPath, extractedDir)
	}()
	if err == nil {
		return extractedDir, nil
	}

	if info, statErr := os.Stat(cfg.InputDir); statErr == nil && info.IsDir() {
		log.Warn("failed to download/extract Drive ZIP, falling back to --input",
			"error", err, "input", cfg.InputDir)
		return cfg.InputDir, nil
	}
	return "", fmt.Errorf("download/extract Drive ZIP: %w", err)
}

func printDebugStats(cmd *cobra.Command, leads []schema.Lead) {
	unique := make(map[string]struct{}, len(leads))
	var minStart, maxStart *time.Time
	for i := range leads {
		if leads[i].EnterpriseNumber != "" {
			unique[leads[i].EnterpriseNumber] = struct{}{}
		}
		if parsed := schema.ParseDate(leads[i].StartDate); parsed != nil {
			if minStart == nil || parsed.Before(*minStart) {
				minStart = parsed
			}
			if maxStart == nil || parsed.After(*maxStart) {
				maxStart = parsed
			}
		}
	}

	numbers := make([]string, 0, len(unique))
	for number := range unique {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)
	if len(numbers) > 10 {
		numbers = numbers[:10]
	}

	cmd.Printf("Debug stats: total_records=%d\n", len(leads))
	cmd.Printf("Debug stats: unique_enterprises=%d\n", len(unique))
	cmd.Printf("Debug stats: min_start_date=%s\n", formatDate(minStart))
	cmd.Printf("Debug stats: max_start_date=%s\n", formatDate(maxStart))
	cmd.Printf("Debug stats: sample_enterprise_numbers=%v\n", numbers)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("2006-01-02")
}
