// Package fetch downloads and unpacks remotely hosted source dumps. A
// single retry-free attempt per run; resilience beyond that is out of scope.
package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var driveFilePathRe = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// DriveFileID extracts the file id from the common Google Drive URL shapes:
// the /file/d/<id> path form and the ?id=<id> query form.
func DriveFileID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse drive URL: %w", err)
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	if host != "drive.google.com" {
		return "", fmt.Errorf("not a Google Drive URL: %s", rawURL)
	}
	if m := driveFilePathRe.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], nil
	}
	if id := parsed.Query().Get("id"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("unable to parse Google Drive file id from %s", rawURL)
}

// DriveDownloadURL rewrites a Drive share link into its direct-download
// form.
func DriveDownloadURL(rawURL string) (string, error) {
	id, err := DriveFileID(rawURL)
	if err != nil {
		return "", err
	}
	return "https://drive.google.com/uc?export=download&id=" + id, nil
}

// DownloadFile fetches url into destination in one attempt, creating parent
// directories as needed.
func DownloadFile(ctx context.Context, rawURL, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	f, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("create %s: %w", destination, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", destination, err)
	}
	return f.Close()
}

// ExtractZip unpacks an archive into outputDir, refusing entries that would
// escape it.
func ExtractZip(zipPath, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create extract directory: %w", err)
	}

	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer archive.Close()

	for _, entry := range archive.File {
		target := filepath.Join(outputDir, entry.Name)
		if !strings.HasPrefix(target, filepath.Clean(outputDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes output directory: %q", entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return dst.Close()
}
