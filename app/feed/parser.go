package feed

import (
	"bytes"
	"errors"

	"github.com/mmcdole/gofeed"
)

// ErrNoItems reports a payload that parsed cleanly but contained no items.
// Semantically distinct from a format error: the markup was fine, the feed
// was just empty beyond recovery.
var ErrNoItems = errors.New("no items found in feed")

// Parser dispatches a payload to the right format parser based on sniffed
// content, with cross-family fallback before giving up: a payload classified
// as XML that yields nothing is retried as JSON, and vice versa. Resilient
// recovery runs last, only for payloads a registered rule claims.
type Parser struct {
	rss       *RSSParser
	atom      *AtomParser
	json      *JSONFeedParser
	resilient *ResilientParser
}

func NewParser() *Parser {
	return &Parser{
		rss:       NewRSSParser(),
		atom:      NewAtomParser(),
		json:      NewJSONFeedParser(),
		resilient: NewResilientParser(),
	}
}

// Resilient exposes the recovery rule registry so hosts can register
// source-specific rules at startup.
func (p *Parser) Resilient() *ResilientParser {
	return p.resilient
}

// Run classifies and parses a payload into normalized items.
func (p *Parser) Run(sourceURL string, data []byte) ([]Item, error) {
	data = normalizeCharset(data)

	var items []Item
	var parseErr error

	switch Classify(data) {
	case ContentTypeXML:
		items, parseErr = p.parseXML(data)
		if parseErr != nil || len(items) == 0 {
			if alt, err := p.json.Parse(data); err == nil && len(alt) > 0 {
				return alt, nil
			}
		}
	case ContentTypeJSON:
		items, parseErr = p.json.Parse(data)
		if parseErr != nil || len(items) == 0 {
			if alt, err := p.parseXML(data); err == nil && len(alt) > 0 {
				return alt, nil
			}
		}
	default:
		items, parseErr = p.parseXML(data)
		if parseErr != nil || len(items) == 0 {
			if alt, err := p.json.Parse(data); err == nil && len(alt) > 0 {
				return alt, nil
			}
		}
	}

	if parseErr == nil && len(items) > 0 {
		return items, nil
	}

	if p.resilient.Matches(sourceURL, data) {
		return p.resilient.Parse(sourceURL, data)
	}

	if parseErr != nil {
		return nil, parseErr
	}
	return nil, ErrNoItems
}

// parseXML picks RSS or Atom from the detected feed family.
func (p *Parser) parseXML(data []byte) ([]Item, error) {
	if gofeed.DetectFeedType(bytes.NewReader(data)) == gofeed.FeedTypeAtom {
		return p.atom.Parse(data)
	}
	return p.rss.Parse(data)
}
