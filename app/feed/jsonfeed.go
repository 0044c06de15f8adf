package feed

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// JSONFeedParser extracts a top-level items[] array from JSON payloads.
// Standards-conformant JSON Feed documents go through gofeed; everything
// else is mapped key-by-key, with missing fields defaulting to the empty
// string rather than failing the item.
type JSONFeedParser struct {
	parser *gofeed.Parser
}

func NewJSONFeedParser() *JSONFeedParser {
	return &JSONFeedParser{
		parser: gofeed.NewParser(),
	}
}

// flexString tolerates JSON values that are either strings or numbers,
// which real-world feeds use interchangeably for ids.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	// Unsupported shapes (objects, arrays) degrade to empty, not to failure.
	*f = ""
	return nil
}

// jsonAuthor accepts both "author": "name" and "author": {"name": ...}.
type jsonAuthor struct {
	Name string
}

func (a *jsonAuthor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		a.Name = obj.Name
		return nil
	}
	a.Name = ""
	return nil
}

type jsonItem struct {
	Title         string     `json:"title"`
	Link          string     `json:"link"`
	URL           string     `json:"url"`
	Description   string     `json:"description"`
	Summary       string     `json:"summary"`
	ContentText   string     `json:"content_text"`
	Author        jsonAuthor `json:"author"`
	Published     string     `json:"published"`
	DatePublished string     `json:"date_published"`
	Updated       string     `json:"updated"`
	DateModified  string     `json:"date_modified"`
	GUID          flexString `json:"guid"`
	ID            flexString `json:"id"`
}

type jsonDocument struct {
	Version string      `json:"version"`
	Items   *[]jsonItem `json:"items"`
}

// Parse returns the normalized items of a JSON feed document.
func (p *JSONFeedParser) Parse(data []byte) ([]Item, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON feed: %w", err)
	}

	if strings.Contains(doc.Version, "jsonfeed.org") {
		if items, err := p.parseStandard(data); err == nil {
			return items, nil
		}
		// Fall through to the generic mapping on translator failure.
	}

	if doc.Items == nil {
		return nil, fmt.Errorf("failed to parse JSON feed: missing items array")
	}

	now := time.Now().UTC()

	items := make([]Item, 0, len(*doc.Items))
	for _, it := range *doc.Items {
		link := cmp.Or(it.Link, it.URL)
		item := Item{
			GUID:        cmp.Or(string(it.GUID), string(it.ID), link),
			Title:       it.Title,
			Link:        link,
			Description: cmp.Or(it.Description, it.Summary, it.ContentText),
			Author:      it.Author.Name,
			PublishedAt: NormalizeDate(cmp.Or(it.Published, it.DatePublished), now),
		}

		if raw := cmp.Or(it.Updated, it.DateModified); raw != "" {
			updated := NormalizeDate(raw, now)
			item.UpdatedAt = &updated
		}

		items = append(items, item)
	}

	return items, nil
}

func (p *JSONFeedParser) parseStandard(data []byte) ([]Item, error) {
	f, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON Feed: %w", err)
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
			PublishedAt: resolveDate(it.PublishedParsed, it.Published, now),
		}
		if it.UpdatedParsed != nil {
			updated := it.UpdatedParsed.UTC()
			item.UpdatedAt = &updated
		}
		items = append(items, item)
	}

	return items, nil
}
