// Package shutdown coordinates graceful termination. On SIGTERM/SIGINT
// the control loop finishes its in-flight phase and flushes its final
// report before downstream resources are closed.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultTimeout is the default graceful shutdown timeout.
const DefaultTimeout = 30 * time.Second

// Component is anything that participates in graceful shutdown.
type Component interface {
	// Name returns the component name for logging.
	Name() string
	// Shutdown gracefully shuts down the component within the given
	// context deadline.
	Shutdown(ctx context.Context) error
}

// Coordinator shuts registered components down in reverse registration
// order, one at a time. Sequential LIFO ordering matters here: the
// control loop must flush its final report before the history store or
// status server underneath it goes away.
type Coordinator struct {
	components []Component
	timeout    time.Duration
	logger     *slog.Logger
	mu         sync.Mutex

	// signalCh allows tests to inject signals.
	signalCh chan os.Signal

	shutdownOnce sync.Once
	shutdownDone chan struct{}
	exitCode     int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout sets the shutdown timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithSignalChannel sets a custom signal channel (for testing).
func WithSignalChannel(ch chan os.Signal) Option {
	return func(c *Coordinator) {
		c.signalCh = ch
	}
}

// NewCoordinator creates a shutdown coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		timeout:      DefaultTimeout,
		logger:       slog.Default(),
		shutdownDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a component. Components shut down in reverse order of
// registration.
func (c *Coordinator) Register(component Component) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component)
	c.logger.Debug("registered shutdown component", "name", component.Name())
}

// WaitForSignal blocks until SIGTERM or SIGINT, then shuts down.
func (c *Coordinator) WaitForSignal() {
	sigCh := c.signalCh
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}

	sig := <-sigCh
	c.logger.Info("received shutdown signal", "signal", sig.String())

	c.Shutdown()
}

// Shutdown runs each component's Shutdown in reverse registration
// order. A component exceeding the remaining time budget marks the
// shutdown as forced.
func (c *Coordinator) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.logger.Info("initiating graceful shutdown", "timeout", c.timeout)

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		c.mu.Lock()
		components := make([]Component, len(c.components))
		copy(components, c.components)
		c.mu.Unlock()

		for i := len(components) - 1; i >= 0; i-- {
			component := components[i]

			if ctx.Err() != nil {
				c.logger.Warn("shutdown timeout exceeded, skipping remaining components",
					"name", component.Name())
				c.exitCode = 1
				break
			}

			c.logger.Info("shutting down component", "name", component.Name())
			if err := component.Shutdown(ctx); err != nil {
				c.logger.Error("component shutdown error",
					"name", component.Name(),
					"error", err,
				)
				c.exitCode = 1
				continue
			}
			c.logger.Info("component shutdown complete", "name", component.Name())
		}

		close(c.shutdownDone)
	})
}

// Wait blocks until shutdown is complete.
func (c *Coordinator) Wait() {
	<-c.shutdownDone
}

// ExitCode returns 0 for a clean shutdown, 1 when any component failed
// or the timeout was exceeded.
func (c *Coordinator) ExitCode() int {
	return c.exitCode
}
