package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a;b\n"), 0o644))
}

func TestFindInputFile(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "enterprises.csv")
		path, err := FindInputFile(dir, InputFileCandidates["enterprise"])
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "enterprises.csv"), path)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "Enterprises.CSV")
		path, err := FindInputFile(dir, InputFileCandidates["enterprise"])
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Enterprises.CSV"), path)
	})

	t.Run("singular fallback", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "contact.csv")
		path, err := FindInputFile(dir, InputFileCandidates["contact"])
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "contact.csv"), path)
	})

	t.Run("doubled extension", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "activities.csv.csv")
		path, err := FindInputFile(dir, InputFileCandidates["activity"])
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "activities.csv.csv"), path)
	})

	t.Run("plural wins over doubled extension", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "addresses.csv")
		touch(t, dir, "addresses.csv.csv")
		path, err := FindInputFile(dir, InputFileCandidates["address"])
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "addresses.csv"), path)
	})

	t.Run("miss enumerates candidates and directory contents", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "unrelated.txt")
		_, err := FindInputFile(dir, InputFileCandidates["denomination"])
		require.Error(t, err)

		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Contains(t, err.Error(), "denominations.csv")
		assert.Contains(t, err.Error(), "unrelated.txt")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := FindInputFile(t.TempDir(), InputFileCandidates["enterprise"])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "(no files found)")
	})
}

func TestDetectInputDir(t *testing.T) {
	t.Run("dir with csv files is used directly", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "enterprises.csv")
		assert.Equal(t, dir, DetectInputDir(dir, nil))
	})

	t.Run("single dated subdir is resolved", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "KboOpenData_2026_08")
		require.NoError(t, os.Mkdir(sub, 0o755))
		touch(t, sub, "enterprises.csv")
		assert.Equal(t, sub, DetectInputDir(dir, nil))
	})

	t.Run("multiple subdirs stay unresolved", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"a", "b"} {
			sub := filepath.Join(dir, name)
			require.NoError(t, os.Mkdir(sub, 0o755))
			touch(t, sub, "enterprises.csv")
		}
		assert.Equal(t, dir, DetectInputDir(dir, nil))
	})

	t.Run("empty dir stays unresolved", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, dir, DetectInputDir(dir, nil))
	})
}
