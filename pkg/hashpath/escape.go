package hashpath

import (
	"net/url"
	"strings"
)

// Escape percent-encodes s for use as a path segment, query key or query
// value. Every byte outside the RFC 3986 unreserved set (A-Z a-z 0-9 - . _ ~)
// is written as an uppercase %XX escape.
func Escape(s string) string {
	// QueryEscape leaves exactly the unreserved set alone but writes space
	// as "+". A literal "+" is already escaped to %2B, so any "+" left in
	// the output came from a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Unescape decodes %XX escapes in s. Unlike form decoding, "+" stays a
// literal plus sign. Malformed escapes are kept as-is instead of failing the
// whole string, so that hand-edited location strings still decode.
func Unescape(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return lenientUnescape(s)
}

// lenientUnescape decodes every valid %XX escape and copies anything else
// through literally.
func lenientUnescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// isHexDigit returns true if c is a valid hex digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
