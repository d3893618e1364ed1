package shutdown

import (
	"context"
	"io"
	"net/http"
)

// HTTPServerComponent wraps an http.Server for graceful shutdown.
type HTTPServerComponent struct {
	name   string
	server *http.Server
}

// NewHTTPServerComponent creates an HTTP server shutdown component.
func NewHTTPServerComponent(name string, server *http.Server) *HTTPServerComponent {
	return &HTTPServerComponent{name: name, server: server}
}

// Name returns the component name.
func (c *HTTPServerComponent) Name() string {
	return c.name
}

// Shutdown stops accepting new connections and waits for in-flight
// requests to complete.
func (c *HTTPServerComponent) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

// CloserComponent wraps an io.Closer, letting resources like the
// history store participate in coordinated shutdown.
type CloserComponent struct {
	name   string
	closer io.Closer
}

// NewCloserComponent creates a closer shutdown component.
func NewCloserComponent(name string, closer io.Closer) *CloserComponent {
	return &CloserComponent{name: name, closer: closer}
}

// Name returns the component name.
func (c *CloserComponent) Name() string {
	return c.name
}

// Shutdown closes the underlying resource.
func (c *CloserComponent) Shutdown(_ context.Context) error {
	return c.closer.Close()
}
