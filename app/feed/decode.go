package feed

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
)

// normalizeCharset converts a payload to UTF-8 when its encoding can be
// detected from a BOM or an embedded declaration. On any failure the
// original bytes are returned unchanged; the parsers get a second chance
// with their own charset handling.
func normalizeCharset(data []byte) []byte {
	reader, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return data
	}

	decoded, err := io.ReadAll(reader)
	if err != nil || len(decoded) == 0 {
		return data
	}

	return decoded
}
