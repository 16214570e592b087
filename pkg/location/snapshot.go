package location

import "github.com/vango-dev/hashroute/pkg/hashpath"

// Snapshot is an immutable view of a Location at one point in time.
type Snapshot struct {
	loc     *Location
	href    string
	path    hashpath.Path
	options hashpath.Options
	version uint64
}

// Path returns a copy of the decoded path.
func (s *Snapshot) Path() hashpath.Path {
	return s.path.Clone()
}

// Options returns a copy of the decoded options.
func (s *Snapshot) Options() hashpath.Options {
	return s.options.Clone()
}

// Href returns the raw host string this Snapshot was decoded from.
func (s *Snapshot) Href() string {
	return s.href
}

// Version increases by one with every Snapshot a Location produces.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// IsCurrent reports whether s is still its Location's current Snapshot.
// Navigation through a Snapshot that is not current has no effect.
func (s *Snapshot) IsCurrent() bool {
	return s.loc != nil && !s.loc.closed && s.loc.current == s
}

// Go navigates to target with options, adding a history entry. Zero-value
// options clear all options.
func (s *Snapshot) Go(target hashpath.Target, options hashpath.Options) {
	s.Navigate(target, options, ModePush)
}

// Replace is like Go but replaces the current history entry.
func (s *Snapshot) Replace(target hashpath.Target, options hashpath.Options) {
	s.Navigate(target, options, ModeReplace)
}

// Navigate encodes target and options and hands the result to the host
// using mode. It does nothing when s is no longer current.
func (s *Snapshot) Navigate(target hashpath.Target, options hashpath.Options, mode Mode) {
	if !s.IsCurrent() {
		return
	}
	s.loc.navigate(s, s.loc.codec.Encode(target, options, false), mode)
}

// Assign decodes raw relative to s and navigates there, taking the options
// from raw. With a current path of /top/file, Assign("another") goes to
// /top/another.
func (s *Snapshot) Assign(raw string) {
	var options hashpath.Options
	path := s.Decode(raw, &options)
	s.Go(path, options)
}

// Decode decodes raw relative to the directory of s's path.
func (s *Snapshot) Decode(raw string, options *hashpath.Options) hashpath.Path {
	return s.codec().Decode(raw, s.path.Dir(), options)
}

// Encode encodes target and options with the Location's codec.
func (s *Snapshot) Encode(target hashpath.Target, options hashpath.Options, withRoot bool) string {
	return s.codec().Encode(target, options, withRoot)
}

func (s *Snapshot) codec() *hashpath.Codec {
	if s.loc == nil {
		return hashpath.New()
	}
	return s.loc.codec
}
