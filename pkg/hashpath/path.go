package hashpath

import "strings"

// Path is an ordered list of decoded path segments. A nil or empty Path is
// the root. Segments may contain "/".
type Path []string

// Target is what Encode accepts as the path portion of a location: either a
// Path, whose segments are escaped and joined, or a Joined string that is
// used verbatim.
type Target interface {
	href() string
}

// Joined is a path portion that has already been formed by the caller, for
// example "/cockpit/system". Encode uses it without escaping.
type Joined string

func (j Joined) href() string { return string(j) }

// href escapes every segment and joins them below "/".
func (p Path) href() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(escapeSegment(seg))
	}
	return b.String()
}

// String returns the encoded form of the path, e.g. "/one/two%2Fthree".
func (p Path) String() string {
	return p.href()
}

// Clone returns a copy of p that shares no storage with it.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and other hold the same segments. A nil and an
// empty path are equal.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Dir returns p without its last segment. Relative locations are resolved
// against the Dir of the current path, the way a relative link resolves
// against the directory of the current document.
func (p Path) Dir() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].Clone()
}

// HasPrefix reports whether the leading segments of p equal prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Resolve applies the raw, still-escaped path portion rawPath to base and
// returns the result. Empty and "." segments are skipped, ".." removes the
// last accumulated segment (never going above the root), and every other
// segment is unescaped and appended. Dot handling looks at the raw segment,
// so "%2E" is an ordinary segment named ".".
//
// A rawPath starting with "/" ignores base. base is never modified.
func Resolve(base Path, rawPath string) Path {
	result := Path{}
	if !strings.HasPrefix(rawPath, "/") {
		result = append(result, base...)
	}
	for _, seg := range strings.Split(rawPath, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
		default:
			result = append(result, Unescape(seg))
		}
	}
	return result
}

// escapeSegment escapes a segment so that Resolve reads it back unchanged.
// "." and ".." are unreserved characters but would be treated as navigation
// markers, so they are escaped in full.
func escapeSegment(seg string) string {
	switch seg {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return Escape(seg)
}
