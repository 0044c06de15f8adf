package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// AtomParser extracts top-level entry[] records from Atom payloads.
type AtomParser struct {
	parser *gofeed.Parser
}

func NewAtomParser() *AtomParser {
	return &AtomParser{
		parser: gofeed.NewParser(),
	}
}

// Parse returns the normalized items of an Atom document. The entry id is
// the GUID; published falls back to updated, then to the ingestion time.
func (p *AtomParser) Parse(data []byte) ([]Item, error) {
	f, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Atom: %w", err)
	}

	now := time.Now().UTC()

	items := make([]Item, 0, len(f.Items))
	for _, it := range f.Items {
		item := Item{
			GUID:        cmp.Or(it.GUID, it.Link),
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			Author:      itemAuthor(it),
		}

		switch {
		case it.PublishedParsed != nil:
			item.PublishedAt = it.PublishedParsed.UTC()
		case it.UpdatedParsed != nil:
			item.PublishedAt = it.UpdatedParsed.UTC()
		default:
			item.PublishedAt = NormalizeDate(cmp.Or(it.Published, it.Updated), now)
		}

		if it.UpdatedParsed != nil {
			updated := it.UpdatedParsed.UTC()
			item.UpdatedAt = &updated
		}

		items = append(items, item)
	}

	return items, nil
}
