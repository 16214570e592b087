package host

import (
	"strings"
	"sync"
)

// Memory is an in-memory location host with a history stack. It is safe for
// concurrent use. Subscribers are called outside the lock, on the goroutine
// that made the change.
type Memory struct {
	mu      sync.Mutex
	entries []string
	index   int
	subs    []*subscription
}

type subscription struct {
	fn      func(string)
	removed bool
}

// NewMemory creates a Memory host whose only history entry is initial.
func NewMemory(initial string) *Memory {
	return &Memory{entries: []string{Normalize(initial)}}
}

// Normalize returns href in the form window.location.hash reports it: ""
// for an empty hash, otherwise the value with exactly one leading "#".
func Normalize(href string) string {
	href = strings.TrimPrefix(href, "#")
	if href == "" {
		return ""
	}
	return "#" + href
}

// Current returns the current hash.
func (m *Memory) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Push adds href as a new history entry after the current one, dropping any
// forward entries.
func (m *Memory) Push(href string) {
	href = Normalize(href)

	m.mu.Lock()
	if m.entries[m.index] == href {
		m.mu.Unlock()
		return
	}
	m.entries = append(m.entries[:m.index+1], href)
	m.index++
	subs := m.activeLocked()
	m.mu.Unlock()

	m.notify(subs, href)
}

// Replace overwrites the current history entry with href.
func (m *Memory) Replace(href string) {
	href = Normalize(href)

	m.mu.Lock()
	if m.entries[m.index] == href {
		m.mu.Unlock()
		return
	}
	m.entries[m.index] = href
	subs := m.activeLocked()
	m.mu.Unlock()

	m.notify(subs, href)
}

// Back moves one entry back in history. It returns false at the first entry.
func (m *Memory) Back() bool {
	return m.Go(-1)
}

// Forward moves one entry forward in history. It returns false at the last
// entry.
func (m *Memory) Forward() bool {
	return m.Go(1)
}

// Go moves delta entries through history. It returns false, without moving,
// when the target entry does not exist.
func (m *Memory) Go(delta int) bool {
	m.mu.Lock()
	target := m.index + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	prev := m.entries[m.index]
	m.index = target
	href := m.entries[target]
	if href == prev {
		m.mu.Unlock()
		return true
	}
	subs := m.activeLocked()
	m.mu.Unlock()

	m.notify(subs, href)
	return true
}

// Len returns the number of history entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Index returns the position of the current entry in history.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Entries returns a copy of the history.
func (m *Memory) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}

// Subscribe registers fn for change notifications.
func (m *Memory) Subscribe(fn func(href string)) (cancel func()) {
	sub := &subscription{fn: fn}

	m.mu.Lock()
	m.subs = append(m.subs, sub)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub.removed {
			return
		}
		sub.removed = true
		for i, s := range m.subs {
			if s == sub {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				break
			}
		}
	}
}

// activeLocked returns a copy of the subscriber list. m.mu must be held.
func (m *Memory) activeLocked() []*subscription {
	return append([]*subscription(nil), m.subs...)
}

// notify calls every subscription in subs that has not been cancelled,
// including by an earlier callback in the same round.
func (m *Memory) notify(subs []*subscription, href string) {
	for _, s := range subs {
		m.mu.Lock()
		removed := s.removed
		m.mu.Unlock()
		if !removed {
			s.fn(href)
		}
	}
}
