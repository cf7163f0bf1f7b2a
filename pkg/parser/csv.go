package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"leadradar/pkg/schema"
)

// DefaultMaxBadLines is the ceiling of malformed lines tolerated per file
// before the read aborts instead of silently dropping data.
const DefaultMaxBadLines = 1000

// Files at or above this size get a one-off streaming notice.
const largeFileWarningBytes = 1 << 30

// ErrTooManyBadLines is returned when the malformed-line ceiling is exceeded.
var ErrTooManyBadLines = errors.New("max bad lines exceeded")

// delimiterCandidates are sniffed in this order; ties go to the earlier one.
var delimiterCandidates = []rune{';', ',', '\t'}

// DetectDelimiter sniffs the field delimiter from the first ~4KB of a file.
// The candidate occurring most often in the sample's first line wins; an
// empty or unreadable file falls back to ';'.
func DetectDelimiter(path string) rune {
	const fallback = ';'

	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	sample := make([]byte, 4096)
	n, _ := io.ReadFull(f, sample)
	if n == 0 {
		return fallback
	}
	line := string(sample[:n])
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	best := fallback
	bestCount := 0
	for _, candidate := range delimiterCandidates {
		if count := strings.Count(line, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// RowFunc receives one decoded row keyed by canonical column name. Returning
// an error stops the read and is passed through to the caller.
type RowFunc func(row map[string]string) error

// Reader turns a registry CSV file into a stream of canonically keyed rows.
// It tolerates the uncontrolled quality of bulk registry exports: sniffed
// delimiters, a Latin-1 retry when the file is not valid UTF-8, and
// line-by-line recovery after a malformed row, bounded by MaxBadLines.
type Reader struct {
	Path        string
	MaxBadLines int
	Log         *slog.Logger
}

// NewReader returns a Reader for path with the default bad-line ceiling.
func NewReader(path string, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	return &Reader{Path: path, MaxBadLines: DefaultMaxBadLines, Log: log}
}

// ReadAll materializes every row. Prefer Each for large files.
func (r *Reader) ReadAll() ([]map[string]string, error) {
	var rows []map[string]string
	err := r.Each(func(row map[string]string) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Each streams the file's rows through fn. The read proceeds in stages:
// encoding detection (one pass), a record-oriented parse, and, from the
// first malformed record onward, line-by-line recovery where each physical
// line is re-split individually. Every call restarts from the top of the
// file.
func (r *Reader) Each(fn RowFunc) error {
	if info, err := os.Stat(r.Path); err == nil && info.Size() >= largeFileWarningBytes {
		r.Log.Warn("large CSV detected for streaming",
			"path", r.Path, "size_gib", float64(info.Size())/(1<<30))
	}

	delimiter := DetectDelimiter(r.Path)
	encoding, err := DetectEncoding(r.Path)
	if err != nil {
		return fmt.Errorf("detect encoding of %s: %w", r.Path, err)
	}
	if encoding != EncodingUTF8 {
		r.Log.Warn("file is not valid UTF-8, falling back", "path", r.Path, "encoding", encoding)
	}

	stream, closer, err := OpenDecoded(r.Path, encoding)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.Path, err)
	}
	defer closer.Close()

	cr := csv.NewReader(stream)
	cr.Comma = delimiter
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: missing CSV header", r.Path)
		}
		return fmt.Errorf("%s: read header: %w", r.Path, err)
	}
	keys := schema.NormalizeHeader(header)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			r.Log.Warn("CSV stream error, falling back to line-by-line parsing",
				"path", r.Path, "error", err)
			return r.recoverLines(cr.InputOffset(), encoding, delimiter, keys, fn)
		}
		if err := fn(rowFromRecord(keys, record)); err != nil {
			return err
		}
	}
}

// recoverLines re-reads the file from offset and parses the remainder one
// physical line at a time. Lines that fail to parse, are empty, or have a
// column count different from the header are counted as bad and skipped;
// exceeding the ceiling aborts the read. A single summary warning reports
// the skip count once the file finishes.
func (r *Reader) recoverLines(offset int64, encoding string, delimiter rune, keys []string, fn RowFunc) error {
	stream, closer, err := OpenDecoded(r.Path, encoding)
	if err != nil {
		return fmt.Errorf("reopen %s: %w", r.Path, err)
	}
	defer closer.Close()

	if _, err := io.CopyN(io.Discard, stream, offset); err != nil {
		return fmt.Errorf("%s: seek to recovery offset: %w", r.Path, err)
	}

	br := bufio.NewReaderSize(stream, 64*1024)

	// The record that triggered recovery counts as the first bad line. Any
	// partial fragment it left behind the offset fails splitLine below and is
	// counted like any other bad line.
	badLines := 1
	if badLines > r.MaxBadLines {
		return fmt.Errorf("%w (%d) while reading %s", ErrTooManyBadLines, r.MaxBadLines, r.Path)
	}
	markBad := func() error {
		badLines++
		if badLines > r.MaxBadLines {
			return fmt.Errorf("%w (%d) while reading %s", ErrTooManyBadLines, r.MaxBadLines, r.Path)
		}
		return nil
	}

	for {
		line, err := readLine(br)
		atEOF := errors.Is(err, io.EOF)
		if err != nil && !atEOF {
			return fmt.Errorf("%s: line recovery read: %w", r.Path, err)
		}
		if atEOF && line == "" {
			break
		}
		row, ok := splitLine(line, delimiter, keys)
		if !ok {
			if err := markBad(); err != nil {
				return err
			}
		} else if err := fn(row); err != nil {
			return err
		}
		if atEOF {
			break
		}
	}

	// badLines is at least 1 here, recovery only runs after a bad record.
	r.Log.Warn("bad lines skipped", "path", r.Path, "count", badLines)
	return nil
}

// splitLine parses one physical line with the detected delimiter. ok is
// false when the line cannot be parsed, is empty, or disagrees with the
// header's column count.
func splitLine(line string, delimiter rune, keys []string) (map[string]string, bool) {
	lr := csv.NewReader(strings.NewReader(line))
	lr.Comma = delimiter
	lr.FieldsPerRecord = -1
	values, err := lr.Read()
	if err != nil || len(values) != len(keys) {
		return nil, false
	}
	return rowFromRecord(keys, values), true
}

// readLine returns the next physical line without its terminator.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return line, err
}

// rowFromRecord maps a record onto canonical keys. Blanked duplicate keys
// from header normalization are dropped.
func rowFromRecord(keys []string, record []string) map[string]string {
	row := make(map[string]string, len(keys))
	for i, key := range keys {
		if key == "" || i >= len(record) {
			continue
		}
		row[key] = record[i]
	}
	return row
}
