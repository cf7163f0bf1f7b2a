// Package config holds the validated runtime configuration of a pipeline
// run. Defaults live here as explicit values injected into the pipeline
// entry point, not ambient globals, so tests can override them per case.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"leadradar/pkg/schema"
)

// DefaultTargetPostcodes is the built-in postcode set used when the
// configuration supplies none.
var DefaultTargetPostcodes = []string{
	"9400", "9402", "9406", "9300",
	"1770", "1760", "1750",
	"9500", "9620",
	"1700", "1540",
}

// SupportedCountries lists the registry formats this pipeline models.
var SupportedCountries = map[string]struct{}{"BE": {}}

// Runtime is the full configuration surface consumed by the core pipeline,
// supplied by the CLI after validation.
type Runtime struct {
	InputDir    string
	Output      string
	Country     string
	City        string
	Query       string
	Postcodes   string
	Months      int
	MinScore    int
	Limit       int
	MaxBadLines int
	Lite        bool
	Verbose     bool
	DryRun      bool
	DebugStats  bool

	// Optional integrations.
	DriveZipURL string
	DownloadDir string
	XLSXPath    string
	LogLevel    string
}

// Validate normalizes and checks the configuration. It runs before any
// source I/O so configuration errors are reported once, fatally.
func (r *Runtime) Validate() error {
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	if r.Country == "" {
		r.Country = "BE"
	}
	if _, ok := SupportedCountries[r.Country]; !ok {
		supported := make([]string, 0, len(SupportedCountries))
		for country := range SupportedCountries {
			supported = append(supported, country)
		}
		sort.Strings(supported)
		return fmt.Errorf("unsupported country %q, supported: %s", r.Country, strings.Join(supported, ", "))
	}

	if r.Months < 1 {
		return fmt.Errorf("months must be >= 1, got %d", r.Months)
	}
	if r.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", r.Limit)
	}
	if r.MinScore < 0 || r.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100, got %d", r.MinScore)
	}
	if r.MaxBadLines < 0 {
		return fmt.Errorf("max-bad-lines must be >= 0, got %d", r.MaxBadLines)
	}

	// With a Drive ZIP the input directory is only a fallback; its absence
	// is checked after the download attempt instead.
	if r.DriveZipURL == "" {
		if info, err := os.Stat(r.InputDir); err != nil || !info.IsDir() {
			return fmt.Errorf("input directory does not exist: %s", r.InputDir)
		}
	}

	r.Output = strings.TrimSpace(r.Output)
	if r.Output == "" ||
		strings.HasSuffix(r.Output, "/") ||
		strings.HasSuffix(r.Output, string(filepath.Separator)) {
		return fmt.Errorf("output must include a filename, e.g. data/processed/leads.csv")
	}
	if base := filepath.Base(r.Output); base == "." || base == ".." {
		return fmt.Errorf("output must include a filename, e.g. data/processed/leads.csv")
	}
	if info, err := os.Stat(r.Output); err == nil && info.IsDir() {
		return fmt.Errorf("output is an existing directory, not a file: %s", r.Output)
	}

	r.City = strings.TrimSpace(r.City)
	r.Query = strings.ToLower(strings.TrimSpace(r.Query))
	r.Postcodes = strings.TrimSpace(r.Postcodes)
	return nil
}

// ParsePostcodes parses a comma-separated postcode list into a membership
// set, normalizing each entry. An empty or unusable list falls back to the
// built-in default set.
func ParsePostcodes(raw string) map[string]struct{} {
	parsed := make(map[string]struct{})
	for _, item := range strings.Split(raw, ",") {
		if normalized := schema.NormalizePostalCode(item); normalized != "" {
			parsed[normalized] = struct{}{}
		}
	}
	if len(parsed) > 0 {
		return parsed
	}
	fallback := make(map[string]struct{}, len(DefaultTargetPostcodes))
	for _, postcode := range DefaultTargetPostcodes {
		fallback[postcode] = struct{}{}
	}
	return fallback
}
