// Package export writes the final lead set: a fixed-column CSV, an optional
// XLSX workbook, and a console summary.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"leadradar/pkg/schema"
)

// SortByScore stable-sorts leads by score descending; ties keep their
// first-seen order.
func SortByScore(leads []schema.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].ScoreTotal > leads[j].ScoreTotal
	})
}

// WriteCSV writes leads in the fixed column order as UTF-8 CSV, creating
// parent directories as needed. The caller sorts beforehand.
func WriteCSV(path string, leads []schema.Lead) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(schema.OutputColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range leads {
		if err := w.Write(leads[i].Row()); err != nil {
			return fmt.Errorf("write record %s: %w", leads[i].EnterpriseNumber, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return f.Close()
}

// WriteSummary prints the human-readable run summary: total record count,
// post-filter count, and the ten most frequent sector buckets.
func WriteSummary(w io.Writer, totalRecords int, leads []schema.Lead) {
	fmt.Fprintf(w, "Total records: %d\n", totalRecords)
	fmt.Fprintf(w, "After filters: %d\n", len(leads))
	fmt.Fprintln(w, "Top 10 sector buckets:")

	counts := make(map[string]int)
	for i := range leads {
		bucket := leads[i].SectorBucket
		if bucket == "" {
			bucket = "(none)"
		}
		counts[bucket]++
	}
	type pair struct {
		bucket string
		count  int
	}
	ordered := make([]pair, 0, len(counts))
	for bucket, count := range counts {
		ordered = append(ordered, pair{bucket, count})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].bucket < ordered[j].bucket
	})
	if len(ordered) > 10 {
		ordered = ordered[:10]
	}
	for _, p := range ordered {
		fmt.Fprintf(w, "- %s: %d\n", p.bucket, p.count)
	}
}

// ExportLeads sorts, writes the CSV and prints the summary to w. Returns the
// number of records written.
func ExportLeads(path string, leads []schema.Lead, totalRecords int, w io.Writer) (int, error) {
	SortByScore(leads)
	if err := WriteCSV(path, leads); err != nil {
		return 0, err
	}
	WriteSummary(w, totalRecords, leads)
	return len(leads), nil
}
