package server

import (
	"sync"

	"github.com/vango-dev/hashroute/pkg/host"
)

// remoteHost is a location.Host whose value lives in a WebSocket client.
// Writes update the cached value immediately and are forwarded to the
// client; the client reports its own changes through set.
type remoteHost struct {
	send func(Message)

	mu   sync.Mutex
	href string
	subs []*remoteSub

	// pending holds written hrefs the client has not echoed yet, oldest
	// first.
	pending []string
}

// maxPendingEchoes bounds pending for clients that never echo.
const maxPendingEchoes = 64

type remoteSub struct {
	fn      func(href string)
	removed bool
}

func newRemoteHost(initial string, send func(Message)) *remoteHost {
	return &remoteHost{href: host.Normalize(initial), send: send}
}

func (h *remoteHost) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.href
}

func (h *remoteHost) Push(href string) {
	h.write(MessagePush, href)
}

func (h *remoteHost) Replace(href string) {
	h.write(MessageReplace, href)
}

func (h *remoteHost) write(typ, href string) {
	h.mu.Lock()
	h.href = host.Normalize(href)
	h.pending = append(h.pending, h.href)
	if len(h.pending) > maxPendingEchoes {
		h.pending = h.pending[len(h.pending)-maxPendingEchoes:]
	}
	h.mu.Unlock()

	h.send(Message{Type: typ, Href: href})
}

// set records a change reported by the client and notifies subscribers.
// Echoes of earlier writes are consumed in order and never notify. Anything
// else is an external change and drops the outstanding echoes.
func (h *remoteHost) set(href string) {
	href = host.Normalize(href)

	h.mu.Lock()
	for i, p := range h.pending {
		if p == href {
			h.pending = h.pending[i+1:]
			h.mu.Unlock()
			return
		}
	}
	h.pending = nil
	if h.href == href {
		h.mu.Unlock()
		return
	}
	h.href = href
	subs := make([]*remoteSub, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, sub := range subs {
		h.mu.Lock()
		removed := sub.removed
		h.mu.Unlock()
		if !removed {
			sub.fn(href)
		}
	}
}

func (h *remoteHost) Subscribe(fn func(href string)) func() {
	sub := &remoteSub{fn: fn}

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		sub.removed = true
		for i, s := range h.subs {
			if s == sub {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				break
			}
		}
	}
}
