package location

// Host is the navigation primitive a Location is attached to, such as a
// browser's window.location.hash.
type Host interface {
	// Current returns the raw location string, e.g. "#/a/b?x=1".
	Current() string

	// Push sets the location string and adds a history entry.
	Push(href string)

	// Replace sets the location string in place of the current history entry.
	Replace(href string)

	// Subscribe registers fn to be called whenever the value returned by
	// Current changes, whatever the cause. The returned function removes
	// the subscription.
	Subscribe(fn func(href string)) (cancel func())
}

// HostMiddleware wraps a Host, for example to record metrics or traces
// around navigation.
type HostMiddleware func(Host) Host

// Mode determines how a navigation updates the host's history.
type Mode int

const (
	// ModePush adds a new history entry (default behavior).
	ModePush Mode = iota

	// ModeReplace replaces the current history entry.
	ModeReplace
)

// String returns "push" or "replace".
func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "push"
}
