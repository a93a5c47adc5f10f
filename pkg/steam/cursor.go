package steam

import (
	"net/url"
	"strings"
)

// Cursor is the opaque pagination token issued by the API. Values held by the
// collector are always in their escaped form, ready to be placed in a URL.
type Cursor string

// InitialCursor requests the first page
const InitialCursor Cursor = "*"

// EscapeCursor percent-encodes a cursor as returned in a response body. ASCII
// letters, digits, "-", "_", ".", "~" and "/" are kept; everything else is
// encoded, spaces as %20.
func EscapeCursor(raw string) Cursor {
	escaped := url.QueryEscape(raw)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return Cursor(escaped)
}

func (c Cursor) String() string {
	return string(c)
}
