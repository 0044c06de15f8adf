package feed

import (
	"bytes"
	"encoding/json"
)

// ContentType is the result of sniffing a payload's bytes. Transport
// Content-Type headers are ignored entirely: a material fraction of feed
// servers mislabel their payloads.
type ContentType int

const (
	ContentTypeUnknown ContentType = iota
	ContentTypeXML
	ContentTypeJSON
)

func (t ContentType) String() string {
	switch t {
	case ContentTypeXML:
		return "xml"
	case ContentTypeJSON:
		return "json"
	}
	return "unknown"
}

// sniffWindow bounds how far into the payload the XML markers are searched.
// Feeds with long leading comments or doctype noise still fit well inside it.
const sniffWindow = 2048

var xmlMarkers = [][]byte{
	[]byte("<?xml"),
	[]byte("<rss"),
	[]byte("<feed"),
	[]byte("<channel"),
}

// Classify inspects raw payload bytes and reports whether they look like an
// XML feed, a JSON document, or neither.
func Classify(data []byte) ContentType {
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) == 0 {
		return ContentTypeUnknown
	}

	window := trimmed
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	lowered := bytes.ToLower(window)
	for _, marker := range xmlMarkers {
		if bytes.Contains(lowered, marker) {
			return ContentTypeXML
		}
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		if json.Valid(trimmed) {
			return ContentTypeJSON
		}
	}

	return ContentTypeUnknown
}
