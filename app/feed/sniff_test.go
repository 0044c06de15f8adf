package feed

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected ContentType
	}{
		{
			name:     "XML declaration",
			data:     `<?xml version="1.0"?><rss version="2.0"></rss>`,
			expected: ContentTypeXML,
		},
		{
			name:     "RSS without declaration",
			data:     `<rss version="2.0"><channel></channel></rss>`,
			expected: ContentTypeXML,
		},
		{
			name:     "Atom feed element",
			data:     `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`,
			expected: ContentTypeXML,
		},
		{
			name:     "bare channel element",
			data:     `<channel><item></item></channel>`,
			expected: ContentTypeXML,
		},
		{
			name:     "leading whitespace before XML",
			data:     "\n\n  <?xml version=\"1.0\"?><rss></rss>",
			expected: ContentTypeXML,
		},
		{
			name:     "BOM before XML",
			data:     "\xef\xbb\xbf<?xml version=\"1.0\"?><rss></rss>",
			expected: ContentTypeXML,
		},
		{
			name:     "uppercase markup",
			data:     `<RSS VERSION="2.0"></RSS>`,
			expected: ContentTypeXML,
		},
		{
			name:     "JSON object",
			data:     `{"version": "https://jsonfeed.org/version/1.1", "items": []}`,
			expected: ContentTypeJSON,
		},
		{
			name:     "JSON array",
			data:     `[{"title": "a"}]`,
			expected: ContentTypeJSON,
		},
		{
			name:     "invalid JSON",
			data:     `{"title": unquoted}`,
			expected: ContentTypeUnknown,
		},
		{
			name:     "HTML page",
			data:     `<!DOCTYPE html><html><body>not a feed</body></html>`,
			expected: ContentTypeUnknown,
		},
		{
			name:     "empty payload",
			data:     "",
			expected: ContentTypeUnknown,
		},
		{
			name:     "whitespace only",
			data:     "   \n\t  ",
			expected: ContentTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]byte(tt.data))
			if got != tt.expected {
				t.Errorf("Classify() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
