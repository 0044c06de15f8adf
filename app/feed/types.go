package feed

import (
	"encoding/json"
	"fmt"
	"time"
)

// Item is the normalized representation every format parser produces.
// PublishedAt is never zero; unparseable or missing dates default to the
// ingestion time so ordering and dedup queries stay well-defined.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Author      string
	PublishedAt time.Time
	UpdatedAt   *time.Time
}

type itemDocument struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Published   string `json:"published"`
	Updated     string `json:"updated,omitempty"`
	GUID        string `json:"guid"`
}

// Document serializes the item as the structured JSON stored in raw_content.
func (i Item) Document() ([]byte, error) {
	doc := itemDocument{
		Title:       i.Title,
		Link:        i.Link,
		Description: i.Description,
		Author:      i.Author,
		Published:   i.PublishedAt.UTC().Format(time.RFC3339),
		GUID:        i.GUID,
	}
	if i.UpdatedAt != nil {
		doc.Updated = i.UpdatedAt.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize item: %w", err)
	}
	return data, nil
}
