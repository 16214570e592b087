package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/hashroute/internal/errors"
	"github.com/vango-dev/hashroute/pkg/location"
	"github.com/vango-dev/hashroute/pkg/middleware"
)

// Message types exchanged over the WebSocket.
const (
	MessageHashChange = "hashchange"
	MessagePush       = "push"
	MessageReplace    = "replace"
)

// Message is a single WebSocket message.
type Message struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

// errConnClosed ends a connection's errgroup once either loop stops.
var errConnClosed = stderrors.New("connection closed")

// Conn is a WebSocket connection bridging a client's hash to a Location.
type Conn struct {
	id     string
	server *Server
	ws     *websocket.Conn
	host   *remoteHost
	loc    *location.Location
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// events holds work for the event loop, which owns loc.
	events chan func()

	writeMu sync.Mutex
}

func newConn(s *Server, ws *websocket.Conn, r *http.Request) *Conn {
	ctx, cancel := context.WithCancel(r.Context())
	c := &Conn{
		id:     uuid.New().String(),
		server: s,
		ws:     ws,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan func(), 64),
	}
	c.logger = s.logger.With("conn_id", c.id)
	c.host = newRemoteHost(r.URL.Query().Get("href"), c.send)

	var mw []location.HostMiddleware
	if s.metrics != nil {
		mw = append(mw, s.metrics.Middleware())
	}
	if s.config.Tracing {
		mw = append(mw, middleware.OpenTelemetry(
			middleware.WithTracerName(s.config.TracerName),
			middleware.WithSpanContext(c.Context),
		))
	}
	mw = append(mw, s.config.HostMiddleware...)

	c.loc = location.New(c.host,
		location.WithCodec(s.codec),
		location.WithLogger(c.logger),
		location.WithHostMiddleware(mw...),
	)
	return c
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string { return c.id }

// Location returns the connection's Location. It must only be used from
// the event loop, that is from OnConnect, subscribers, or Dispatch.
func (c *Conn) Location() *location.Location { return c.loc }

// Context returns a context cancelled when the connection closes.
func (c *Conn) Context() context.Context { return c.ctx }

// Logger returns the connection logger.
func (c *Conn) Logger() *slog.Logger { return c.logger }

// Href returns the client's last known hash. Safe for concurrent use.
func (c *Conn) Href() string { return c.host.Current() }

// Dispatch queues fn to run on the event loop. It reports false if the
// connection is closed. Calling Dispatch from the event loop while the
// queue is full blocks until the connection closes.
func (c *Conn) Dispatch(fn func()) bool {
	if c.ctx.Err() != nil {
		return false
	}
	select {
	case c.events <- fn:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// Close closes the connection.
func (c *Conn) Close() {
	c.cancel()
	c.ws.Close()
}

// serve runs the read and event loops until either stops.
func (c *Conn) serve() error {
	g, ctx := errgroup.WithContext(c.ctx)
	g.Go(func() error { return c.readLoop(ctx) })
	g.Go(func() error { return c.eventLoop(ctx) })

	err := g.Wait()
	c.Close()
	c.loc.Close()
	if stderrors.Is(err, errConnClosed) {
		return nil
	}
	return err
}

// readLoop decodes client messages and queues them for the event loop.
func (c *Conn) readLoop(ctx context.Context) error {
	c.ws.SetReadLimit(c.server.config.MaxMessageSize)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return errConnClosed
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("invalid message", "error", errors.New("E200").Wrap(err))
			continue
		}

		switch msg.Type {
		case MessageHashChange:
			href := msg.Href
			if !c.Dispatch(func() { c.host.set(href) }) {
				return errConnClosed
			}
		default:
			c.logger.Warn("invalid message",
				"error", errors.New("E200").WithDetailf("unknown message type %q", msg.Type))
		}
	}
}

// eventLoop runs queued work. It owns the Location.
func (c *Conn) eventLoop(ctx context.Context) error {
	if fn := c.server.config.OnConnect; fn != nil {
		c.run(func() { fn(c) })
	}

	for {
		select {
		case fn := <-c.events:
			c.run(fn)
		case <-ctx.Done():
			c.ws.Close()
			return errConnClosed
		}
	}
}

// run executes fn, recovering from panics so one bad handler does not
// take down the server.
func (c *Conn) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in event loop", "panic", r)
		}
	}()
	fn()
}

// send writes msg to the client.
func (c *Conn) send(msg Message) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout))
	if err := c.ws.WriteJSON(msg); err != nil {
		c.logger.Error("write error", "error", err)
		c.cancel()
	}
}

// handleWebSocket upgrades the request and serves the connection until it
// closes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(s, ws, r)
	s.track(c)
	defer s.untrack(c)

	c.logger.Info("connection opened", "href", c.host.Current())
	if err := c.serve(); err != nil {
		c.logger.Error("connection error", "error", err)
	}
	c.logger.Info("connection closed")
}
