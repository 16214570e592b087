package location

import (
	"log/slog"

	"github.com/vango-dev/hashroute/pkg/hashpath"
)

// Option configures a Location.
type Option func(*config)

type config struct {
	codec      *hashpath.Codec
	logger     *slog.Logger
	middleware []HostMiddleware
}

// WithRoot uses a codec with the given URL root for decoding host strings
// and for Encode and Decode.
func WithRoot(root string) Option {
	return func(c *config) {
		c.codec = hashpath.New(hashpath.WithRoot(root))
	}
}

// WithCodec sets the codec directly.
func WithCodec(codec *hashpath.Codec) Option {
	return func(c *config) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHostMiddleware wraps the host. The first middleware is the outermost.
func WithHostMiddleware(mw ...HostMiddleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}

// Location holds the current Snapshot of a host's location.
type Location struct {
	host    Host
	codec   *hashpath.Codec
	logger  *slog.Logger
	current *Snapshot
	version uint64

	subscribers []*subscriber
	cancel      func()
	closed      bool
}

type subscriber struct {
	fn      func(*Snapshot)
	removed bool
}

// New attaches a Location to host and decodes the host's current value into
// the first Snapshot.
func New(host Host, opts ...Option) *Location {
	cfg := config{codec: hashpath.New()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	for i := len(cfg.middleware) - 1; i >= 0; i-- {
		host = cfg.middleware[i](host)
	}

	l := &Location{
		host:   host,
		codec:  cfg.codec,
		logger: cfg.logger.With("component", "location"),
	}
	l.current = l.snapshot(host.Current())
	l.cancel = host.Subscribe(l.handleChange)
	return l
}

// Current returns the current Snapshot. Callers should fetch it again after
// any navigation instead of holding on to it.
func (l *Location) Current() *Snapshot {
	return l.current
}

// Codec returns the codec used by the Location.
func (l *Location) Codec() *hashpath.Codec {
	return l.codec
}

// Subscribe registers fn to be called with the new Snapshot after every
// change of the host's location. Subscribers run synchronously in the order
// they subscribed. The returned function removes the subscription; it may
// be called from inside fn.
func (l *Location) Subscribe(fn func(*Snapshot)) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	l.subscribers = append(l.subscribers, sub)
	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		for i, s := range l.subscribers {
			if s == sub {
				l.subscribers = append(l.subscribers[:i:i], l.subscribers[i+1:]...)
				break
			}
		}
	}
}

// Close detaches the Location from its host and drops all subscribers.
// Snapshots taken before Close can no longer navigate.
func (l *Location) Close() {
	if l.closed {
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	for _, s := range l.subscribers {
		s.removed = true
	}
	l.subscribers = nil
}

// handleChange is the host callback. The reported href may lag behind the
// host when changes are delivered late, so the Snapshot is always rebuilt
// from the host's current value.
func (l *Location) handleChange(string) {
	if l.closed {
		return
	}
	href := l.host.Current()
	if href == l.current.href {
		return
	}
	l.current = l.snapshot(href)
	l.logger.Debug("location changed", "href", href, "version", l.current.version)

	cur := l.current
	subs := append([]*subscriber(nil), l.subscribers...)
	for _, s := range subs {
		// A subscriber navigated; everyone has already seen the newer
		// Snapshot.
		if l.current != cur {
			return
		}
		if s.removed {
			continue
		}
		s.fn(cur)
	}
}

// snapshot decodes href into a new Snapshot with the next version.
func (l *Location) snapshot(href string) *Snapshot {
	l.version++
	s := &Snapshot{
		loc:     l,
		href:    href,
		version: l.version,
	}
	s.path = l.codec.Decode(href, nil, &s.options)
	return s
}

// navigate writes href to the host on behalf of from.
func (l *Location) navigate(from *Snapshot, href string, mode Mode) {
	if l.closed || from != l.current {
		return
	}

	switch mode {
	case ModeReplace:
		l.host.Replace(href)
	default:
		l.host.Push(href)
	}

	// Hosts that report the change later still have the new value in
	// Current right away; pick it up now so the next Snapshot is current.
	l.handleChange(href)
}
