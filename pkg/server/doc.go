// Package server exposes hash locations over HTTP and WebSocket.
//
// The HTTP API decodes and encodes location strings:
//
//	GET  /api/decode?href=%23%2Fa%2Fb%3Fx%3D1
//	POST /api/encode  {"path":["a","b"],"options":{"x":"1"}}
//
// The WebSocket endpoint at /ws bridges a browser's window.location.hash to
// a server-side location.Location. The client reports hash changes and the
// server sends navigations back:
//
//	client -> server  {"type":"hashchange","href":"#/a"}
//	server -> client  {"type":"push","href":"/b"}
//	server -> client  {"type":"replace","href":"/c"}
//
// Each connection runs its Location on a dedicated event loop goroutine.
// Use Config.OnConnect to subscribe and navigate:
//
//	srv := server.New(&server.Config{
//	    OnConnect: func(c *server.Conn) {
//	        c.Location().Subscribe(func(s *location.Snapshot) {
//	            c.Logger().Info("navigated", "path", s.Path())
//	        })
//	    },
//	})
//	err := srv.ListenAndServe(ctx)
package server
