package hashpath

import "strings"

// Codec decodes and encodes location strings. The zero value has no URL
// root and is ready to use. A Codec is immutable and safe for concurrent
// use.
type Codec struct {
	root     Path
	rootHref string
}

// Option configures a Codec.
type Option func(*Codec)

// WithRoot sets the deployment URL root, e.g. "cockpit" or "/apps/admin/".
// Leading, trailing and repeated slashes are ignored. An empty root disables
// root handling.
func WithRoot(root string) Option {
	return func(c *Codec) {
		c.root = Resolve(nil, "/"+root)
		if len(c.root) == 0 {
			c.root = nil
			c.rootHref = ""
			return
		}
		c.rootHref = c.root.href()
	}
}

// New creates a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the configured URL root as a path, or nil.
func (c *Codec) Root() Path {
	return c.root.Clone()
}

// Decode parses raw into a resolved Path and, when options is non-nil, adds
// the decoded query terms to options.
//
// A leading "#" is ignored. A path portion that does not start with "/" is
// resolved relative to base; an empty path portion is the root. When a URL
// root is configured, an absolute path that begins with the root's segments
// has them removed.
func (c *Codec) Decode(raw string, base Path, options *Options) Path {
	raw = strings.TrimPrefix(raw, "#")

	rawPath, query, hasQuery := strings.Cut(raw, "?")

	var path Path
	if rawPath == "" {
		path = Path{}
	} else {
		path = Resolve(base, rawPath)
		if strings.HasPrefix(rawPath, "/") && len(c.root) > 0 && path.HasPrefix(c.root) {
			path = path[len(c.root):].Clone()
		}
	}

	if hasQuery && options != nil {
		decodeQuery(query, options)
	}
	return path
}

// decodeQuery adds every key=value term of query to options.
func decodeQuery(query string, options *Options) {
	var decoded Options
	for _, term := range strings.Split(query, "&") {
		if term == "" {
			continue
		}
		key, value, _ := strings.Cut(term, "=")
		decoded.add(Unescape(key), Unescape(value))
	}
	if options.Len() == 0 {
		*options = decoded
		return
	}
	for _, k := range decoded.keys {
		for _, v := range decoded.values[k].vals {
			options.Add(k, v)
		}
	}
}

// Encode serializes target and options into a location string.
//
// A Path target has its segments escaped and joined below "/"; a Joined
// target is used verbatim. With withRoot set, the configured URL root is
// prepended unless the path portion already starts with it. Options that
// encode to a non-empty query follow after "?".
func (c *Codec) Encode(target Target, options Options, withRoot bool) string {
	href := target.href()

	if withRoot && c.rootHref != "" && !c.hasRoot(href) {
		if !strings.HasPrefix(href, "/") {
			href = "/" + href
		}
		href = c.rootHref + href
	}

	if query := options.Encode(); query != "" {
		href += "?" + query
	}
	return href
}

// hasRoot reports whether href already carries the URL root.
func (c *Codec) hasRoot(href string) bool {
	return href == c.rootHref || strings.HasPrefix(href, c.rootHref+"/")
}

var defaultCodec = New()

// Decode parses raw with a Codec that has no URL root.
func Decode(raw string, base Path, options *Options) Path {
	return defaultCodec.Decode(raw, base, options)
}

// Encode serializes target and options with a Codec that has no URL root.
func Encode(target Target, options Options) string {
	return defaultCodec.Encode(target, options, false)
}
