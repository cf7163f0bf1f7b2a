package parser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// InputFileCandidates lists the accepted filenames per source type, in
// lookup order. Both plural and singular spellings occur in the wild, and
// some dumps double the extension ("enterprises.csv.csv"); FindInputFile
// tries the doubled form after the listed ones.
var InputFileCandidates = map[string][]string{
	"enterprise":    {"enterprises.csv", "enterprise.csv"},
	"establishment": {"establishments.csv", "establishment.csv"},
	"address":       {"addresses.csv", "address.csv"},
	"activity":      {"activities.csv", "activity.csv"},
	"contact":       {"contacts.csv", "contact.csv"},
	"denomination":  {"denominations.csv", "denomination.csv"},
}

// NotFoundError reports a missing source file, enumerating both the
// candidate names that were searched and what the directory actually
// contains so a naming mismatch is immediately visible.
type NotFoundError struct {
	Dir        string
	Candidates []string
	Found      []string
}

func (e *NotFoundError) Error() string {
	found := "(no files found)"
	if len(e.Found) > 0 {
		found = strings.Join(e.Found, ", ")
	}
	return fmt.Sprintf("no valid input file in %q: expected one of: %s; found: %s",
		e.Dir, strings.Join(e.Candidates, ", "), found)
}

// FindInputFile locates the first matching candidate filename in dir,
// case-insensitively, trying the doubled-extension variants after the plain
// ones. A miss returns a *NotFoundError.
func FindInputFile(dir string, candidates []string) (string, error) {
	entries := listDir(dir)

	match := func(name string) (string, bool) {
		for _, entry := range entries {
			if strings.EqualFold(entry, name) {
				return filepath.Join(dir, entry), true
			}
		}
		return "", false
	}

	for _, candidate := range candidates {
		if path, ok := match(candidate); ok {
			return path, nil
		}
	}
	for _, candidate := range candidates {
		if path, ok := match(candidate + ".csv"); ok {
			return path, nil
		}
	}

	return "", &NotFoundError{Dir: dir, Candidates: candidates, Found: entries}
}

// DetectInputDir resolves the dated-dump convention: when dir itself holds
// no CSV files but exactly one immediate subdirectory does, that
// subdirectory is used transparently. Its basename becomes the
// source_files_version of every output record.
func DetectInputDir(dir string, log *slog.Logger) string {
	if log == nil {
		log = slog.Default()
	}
	if hasCSVFiles(dir) {
		return dir
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir
	}
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
		}
	}
	if len(subdirs) == 1 {
		sub := filepath.Join(dir, subdirs[0])
		if hasCSVFiles(sub) {
			log.Info("detected subfolder with CSV files, using it", "dir", sub)
			return sub
		}
	}
	return dir
}

func hasCSVFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			return true
		}
	}
	return false
}

// listDir returns the sorted names of dir's entries, empty when unreadable.
func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}
