package parser

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Encoding names reported by DetectEncoding.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// DetectEncoding scans a file once and decides which decoder OpenDecoded
// should use. UTF-8 (with or without BOM) is attempted first; any invalid
// byte sequence demotes the whole file to the Latin-1 fallback, under which
// every byte value is representable. At most one full pass.
func DetectEncoding(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Multi-byte runes may straddle a chunk boundary, so an incomplete tail
	// is carried into the next chunk instead of being judged invalid.
	var pending []byte
	buf := make([]byte, 64*1024)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			data := append(pending, buf[:n]...)
			pending = nil
			for len(data) > 0 {
				r, size := utf8.DecodeRune(data)
				if r == utf8.RuneError && size == 1 {
					if readErr == nil && len(data) < utf8.UTFMax {
						pending = append(pending, data...)
						break
					}
					return EncodingLatin1, nil
				}
				data = data[size:]
			}
		}
		if readErr == io.EOF {
			if len(pending) > 0 {
				return EncodingLatin1, nil
			}
			return EncodingUTF8, nil
		}
		if readErr != nil {
			return "", readErr
		}
	}
}

// OpenDecoded opens path as a UTF-8 text stream: the BOM, if present, is
// stripped, and when encoding is EncodingLatin1 the bytes are transformed
// through the ISO 8859-1 decoder. The caller owns the returned closer.
func OpenDecoded(path, encoding string) (io.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader = bufio.NewReaderSize(f, 64*1024)
	if encoding == EncodingLatin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	} else {
		r = stripBOM(r)
	}
	return r, f, nil
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(bomUTF8))
	if err == nil && bytes.Equal(head, bomUTF8) {
		br.Discard(len(bomUTF8))
	}
	return br
}
