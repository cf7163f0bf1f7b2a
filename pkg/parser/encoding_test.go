package parser

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBytes(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestDetectEncoding(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		want    string
	}{
		{"plain ascii", []byte("name;city\nAcme;Ninove\n"), EncodingUTF8},
		{"valid utf-8", []byte("name\ncafé\n"), EncodingUTF8},
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("name\nx\n")...), EncodingUTF8},
		{"latin-1 byte", []byte("name\ncaf\xE9\n"), EncodingLatin1},
		{"empty", nil, EncodingUTF8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeBytes(t, "input.csv", tc.content)
			got, err := DetectEncoding(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOpenDecodedLatin1(t *testing.T) {
	path := writeBytes(t, "input.csv", []byte("caf\xE9 Li\xE8ge"))

	stream, closer, err := OpenDecoded(path, EncodingLatin1)
	require.NoError(t, err)
	defer closer.Close()

	decoded, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "café Liège", string(decoded))
}

func TestOpenDecodedStripsBOM(t *testing.T) {
	path := writeBytes(t, "input.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("name;status")...))

	stream, closer, err := OpenDecoded(path, EncodingUTF8)
	require.NoError(t, err)
	defer closer.Close()

	decoded, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "name;status", string(decoded))
}

func TestReaderDecodesLatin1File(t *testing.T) {
	path := writeBytes(t, "input.csv", []byte("name;city\nSalon Andr\xE9;Li\xE8ge\n"))

	rows, err := NewReader(path, nil).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Salon André", rows[0]["name"])
	assert.Equal(t, "Liège", rows[0]["city"])
}
