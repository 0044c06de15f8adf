package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSParser extracts channel.item[] records from RSS payloads.
type RSSParser struct {
	parser *gofeed.Parser
}

func NewRSSParser() *RSSParser {
	return &RSSParser{
		parser: gofeed.NewParser(),
	}
}

// Parse returns the normalized items of an RSS document. Item dates fall
// back to the channel's lastBuildDate, then to the ingestion time.
func (p *RSSParser) Parse(data []byte) ([]Item, error) {
	f, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS: %w", err)
	}

	now := time.Now().UTC()
	channelDate := now
	if f.UpdatedParsed != nil {
		channelDate = f.UpdatedParsed.UTC()
	} else if f.PublishedParsed != nil {
		channelDate = f.PublishedParsed.UTC()
	}

	items := make([]Item, 0, len(f.Items))
	for _, it := range f.Items {
		item := Item{
			GUID:        cmp.Or(it.GUID, it.Link),
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			Author:      itemAuthor(it),
		}

		item.PublishedAt = resolveDate(it.PublishedParsed, it.Published, channelDate)
		if it.UpdatedParsed != nil {
			updated := it.UpdatedParsed.UTC()
			item.UpdatedAt = &updated
		}

		items = append(items, item)
	}

	return items, nil
}

func itemAuthor(it *gofeed.Item) string {
	if len(it.Authors) > 0 && it.Authors[0] != nil {
		return cmp.Or(it.Authors[0].Name, it.Authors[0].Email)
	}
	if it.Author != nil {
		return cmp.Or(it.Author.Name, it.Author.Email)
	}
	return ""
}
