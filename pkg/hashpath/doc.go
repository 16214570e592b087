// Package hashpath converts between location hash strings and structured
// navigation state.
//
// A location string has the form
//
//	[#][/]seg1/seg2/...[?key1=val1&key2=val2...]
//
// and decodes to a Path (ordered, already-unescaped segments) plus Options
// (ordered keys, each holding a single value or, when a key repeats, a list
// of values).
//
// Decoding is total: malformed percent escapes pass through unchanged,
// ".." never climbs above the root, and query terms without "=" decode to
// an empty value. An input without a leading "/" is resolved against a base
// path:
//
//	opts := hashpath.Options{}
//	path := hashpath.Decode("../relative/sub?a=1&a=2", hashpath.Path{"base"}, &opts)
//	// path == Path{"relative", "sub"}
//	// opts: a => ["1", "2"]
//
// Encoding is the inverse and produces one canonical string per input:
//
//	hashpath.Encode(hashpath.Path{"slash", "/"}, hashpath.Options{})
//	// "/slash/%2F"
//
// A Codec carries the optional deployment URL root that Encode prepends
// when asked to and Decode strips from absolute paths.
package hashpath
