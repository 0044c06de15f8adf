package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// ItemHash computes the stable content identity of an item. A fixed GUID
// always yields the same hash across runs and processes. When the GUID is
// absent the hash falls back to a composite of the feed id and the
// normalized link, so two feeds carrying the same article keep distinct
// identities only through the (hash, feed_id) uniqueness constraint.
func ItemHash(feedID string, item Item) string {
	if item.GUID != "" {
		return hashString(item.GUID)
	}
	return hashString(feedID + "|" + NormalizeLink(item.Link))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NormalizeLink canonicalizes a URL for identity purposes: lowercased scheme
// and host, no fragment, no trailing slash. Unparseable links are used as-is.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil {
		return link
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}
