// Package loader maps raw registry rows into canonical entity shapes. Each
// source type (enterprise, establishment, address, activity, contact,
// denomination) resolves its columns through prioritized synonym lists and
// passes every identifier through the digits-only normalizer before it is
// used as a map key.
package loader

import (
	"errors"
	"log/slog"

	"leadradar/pkg/parser"
)

// Source reads the entity files of one input directory.
type Source struct {
	Dir         string
	MaxBadLines int
	Log         *slog.Logger
}

// NewSource returns a Source over dir. maxBadLines <= 0 selects the default
// per-file malformed-line ceiling.
func NewSource(dir string, maxBadLines int, log *slog.Logger) *Source {
	if maxBadLines <= 0 {
		maxBadLines = parser.DefaultMaxBadLines
	}
	if log == nil {
		log = slog.Default()
	}
	return &Source{Dir: dir, MaxBadLines: maxBadLines, Log: log}
}

// reader locates the file for a source kind and wraps it in a tolerant CSV
// reader. Missing files surface as *parser.NotFoundError.
func (s *Source) reader(kind string) (*parser.Reader, error) {
	path, err := parser.FindInputFile(s.Dir, parser.InputFileCandidates[kind])
	if err != nil {
		return nil, err
	}
	r := parser.NewReader(path, s.Log)
	r.MaxBadLines = s.MaxBadLines
	return r, nil
}

// optional reports whether err is the benign missing-optional-source case.
func optional(err error) bool {
	var nf *parser.NotFoundError
	return errors.As(err, &nf)
}
