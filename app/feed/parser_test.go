package feed

import (
	"errors"
	"testing"
	"time"
)

func TestRunRSS(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <lastBuildDate>Mon, 03 Jul 2023 12:00:00 GMT</lastBuildDate>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>test@example.com (Test Author)</author>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	items, err := parser.Run("https://example.com/feed.xml", []byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", item1.Title)
	}
	if item1.GUID != "item-1" {
		t.Errorf("Expected GUID 'item-1', got: %s", item1.GUID)
	}
	expected := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if !item1.PublishedAt.Equal(expected) {
		t.Errorf("Expected published %v, got: %v", expected, item1.PublishedAt)
	}

	// Item without a guid falls back to its link.
	if items[1].GUID != "https://example.com/item2" {
		t.Errorf("Expected GUID to fall back to link, got: %s", items[1].GUID)
	}
}

func TestRunAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <summary>Entry summary</summary>
    <author><name>Test Author</name></author>
  </entry>
</feed>`

	parser := NewParser()
	items, err := parser.Run("https://example.com/atom.xml", []byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}

	item := items[0]
	if item.GUID != "urn:uuid:entry-1" {
		t.Errorf("Expected GUID 'urn:uuid:entry-1', got: %s", item.GUID)
	}
	if item.Link != "https://example.com/entry1" {
		t.Errorf("Expected link 'https://example.com/entry1', got: %s", item.Link)
	}
	if item.Author != "Test Author" {
		t.Errorf("Expected author 'Test Author', got: %s", item.Author)
	}
	// published absent, falls back to updated
	expected := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if !item.PublishedAt.Equal(expected) {
		t.Errorf("Expected published %v, got: %v", expected, item.PublishedAt)
	}
}

func TestRunJSONGenericKeys(t *testing.T) {
	jsonData := `{
  "items": [
    {
      "title": "JSON Item",
      "link": "https://example.com/json1",
      "description": "A JSON item",
      "author": "Jane",
      "published": "2023-07-03T10:00:00Z",
      "guid": "json-1"
    },
    {
      "title": "Sparse Item"
    }
  ]
}`

	parser := NewParser()
	items, err := parser.Run("https://example.com/feed.json", []byte(jsonData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	if items[0].GUID != "json-1" {
		t.Errorf("Expected GUID 'json-1', got: %s", items[0].GUID)
	}
	if items[0].Author != "Jane" {
		t.Errorf("Expected author 'Jane', got: %s", items[0].Author)
	}

	// Missing fields default to empty, never fail the item.
	sparse := items[1]
	if sparse.Title != "Sparse Item" || sparse.Link != "" || sparse.Description != "" {
		t.Errorf("Unexpected sparse item: %+v", sparse)
	}
	if sparse.PublishedAt.IsZero() {
		t.Error("Missing date must default to ingestion time, not zero")
	}
}

func TestRunJSONFeedStandard(t *testing.T) {
	jsonData := `{
  "version": "https://jsonfeed.org/version/1.1",
  "title": "Standard JSON Feed",
  "items": [
    {
      "id": "1",
      "url": "https://example.com/first",
      "title": "First",
      "content_text": "Hello",
      "date_published": "2023-07-03T10:00:00Z"
    }
  ]
}`

	parser := NewParser()
	items, err := parser.Run("https://example.com/feed.json", []byte(jsonData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Link != "https://example.com/first" {
		t.Errorf("Expected link 'https://example.com/first', got: %s", items[0].Link)
	}
}

func TestRunXMLFallbackToJSON(t *testing.T) {
	// An XML marker inside a string value makes the sniffer classify the
	// payload as XML. The numeric id breaks the strict XML-family parse,
	// so the dispatcher retries the JSON family, whose mapping tolerates it.
	jsonData := `{"items": [{"title": "mentions a <channel> element", "id": 101}]}`

	parser := NewParser()
	items, err := parser.Run("https://example.com/feed", []byte(jsonData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 || items[0].GUID != "101" {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestRunNoItems(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Empty Feed</title>
    <link>https://example.com</link>
    <description>No items here</description>
  </channel>
</rss>`

	parser := NewParser()
	_, err := parser.Run("https://example.com/feed.xml", []byte(rssData))
	if !errors.Is(err, ErrNoItems) {
		t.Errorf("Expected ErrNoItems, got: %v", err)
	}
}

func TestRunGarbage(t *testing.T) {
	parser := NewParser()
	_, err := parser.Run("https://example.com/feed", []byte("complete garbage, no structure at all"))
	if err == nil {
		t.Error("Expected an error for unparseable payload")
	}
	if errors.Is(err, ErrNoItems) {
		t.Error("Garbage should be a format error, not a semantic no-items error")
	}
}

func TestRunResilientRecovery(t *testing.T) {
	// Unclosed channel and stray markup defeat the strict parsers, but the
	// item blocks are still pattern-predictable.
	hostile := `<rss><channel>
<item><title>Recovered &amp; restored</title><link>https://hostile.example/a</link><guid>h-1</guid></item>
<item><title>Second</title><link>https://hostile.example/b</link><guid>h-2</guid>
</channel>`

	parser := NewParser()
	items, err := parser.Run("https://hostile.example/feed", []byte(hostile))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("Expected recovered items")
	}
	if items[0].GUID != "h-1" {
		t.Errorf("Expected GUID 'h-1', got: %s", items[0].GUID)
	}
	if items[0].Title != "Recovered & restored" {
		t.Errorf("Expected unescaped title, got: %s", items[0].Title)
	}
}

func TestRunCustomResilientRule(t *testing.T) {
	parser := NewParser()
	parser.Resilient().Register(ResilientRule{
		Name:  "hostile-domain",
		Match: URLMatcher("hostile.example"),
		Extract: func(data []byte, now time.Time) []Item {
			return []Item{{GUID: "custom-1", Title: "Custom", PublishedAt: now}}
		},
	})

	items, err := parser.Run("https://hostile.example/special", []byte("%%% not markup %%%"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 || items[0].GUID != "custom-1" {
		t.Errorf("Expected the custom rule's item, got: %+v", items)
	}
}
