package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server with lifecycle helpers. The write timeout is
// stretched past the mint confirmation wait, since the synchronous generate
// endpoint holds the response open for the full synthesize-and-mint round
// trip.
type HTTPServer struct {
	server *http.Server
	addr   string
}

func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	writeTimeout := cfg.HTTPWriteTimeout
	if writeTimeout < cfg.MintWaitTimeout {
		writeTimeout = cfg.MintWaitTimeout + 30*time.Second
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	return &HTTPServer{server: srv, addr: addr}
}

// Addr returns the listen address the server was configured with.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// Start runs the HTTP server in the current goroutine.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
