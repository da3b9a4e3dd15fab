package mcpserver

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// URIScheme and URIHost form the fixed prefix of every entry URI.
	URIScheme = "prompt"
	URIHost   = "arsiv"

	// URITemplate matches any entry URI.
	URITemplate = URIScheme + "://" + URIHost + "/{id}"

	// MIMEType is the type of every entry's content.
	MIMEType = "text/plain"
)

// EntryURI builds the resource URI of an entry.
// IDs are opaque, so the path segment is percent-encoded.
func EntryURI(id string) string {
	return URIScheme + "://" + URIHost + "/" + url.PathEscape(id)
}

// ParseEntryURI extracts the entry ID from a resource URI, decoding the path
// exactly once. It inverts EntryURI.
func ParseEntryURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid resource uri %q: %w", raw, err)
	}
	if u.Scheme != URIScheme {
		return "", fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	return strings.TrimPrefix(u.Path, "/"), nil
}
