// Package metrics samples service health endpoints and maintains the
// per-service rolling windows of latency observations.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

const (
	// DefaultSampleSize is the number of sequential probes per collection.
	DefaultSampleSize = 10
	// DefaultSampleDelay spaces sequential probes so a collection does
	// not overwhelm the target and transient jitter averages out.
	DefaultSampleDelay = 100 * time.Millisecond
	// DefaultProbeTimeout bounds a single health-check request.
	DefaultProbeTimeout = 10 * time.Second

	// userAgent identifies optimizer probes in service access logs.
	userAgent = "resume-optimizer-healthcheck/1.0"
)

// Collector probes service health endpoints and records samples into
// bounded rolling windows.
type Collector struct {
	client         *http.Client
	sampleSize     int
	sampleDelay    time.Duration
	windowCapacity int
	logger         *slog.Logger

	mu      sync.Mutex
	windows map[string]*Window
}

// CollectorOption is a functional option for configuring Collector.
type CollectorOption func(*Collector)

// WithHTTPClient sets the HTTP client used for probes.
func WithHTTPClient(client *http.Client) CollectorOption {
	return func(c *Collector) {
		c.client = client
	}
}

// WithSampleSize sets the number of probes per collection.
func WithSampleSize(n int) CollectorOption {
	return func(c *Collector) {
		c.sampleSize = n
	}
}

// WithSampleDelay sets the delay between sequential probes.
func WithSampleDelay(d time.Duration) CollectorOption {
	return func(c *Collector) {
		c.sampleDelay = d
	}
}

// WithWindowCapacity sets the rolling window capacity for new services.
func WithWindowCapacity(n int) CollectorOption {
	return func(c *Collector) {
		c.windowCapacity = n
	}
}

// WithCollectorLogger sets the logger.
func WithCollectorLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a Collector with default probe settings.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{
		client:         &http.Client{Timeout: DefaultProbeTimeout},
		sampleSize:     DefaultSampleSize,
		sampleDelay:    DefaultSampleDelay,
		windowCapacity: DefaultWindowCapacity,
		logger:         slog.Default(),
		windows:        make(map[string]*Window),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the rolling window for a service, creating it on first
// use.
func (c *Collector) Window(serviceID string) *Window {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[serviceID]
	if !ok {
		w = NewWindow(c.windowCapacity)
		c.windows[serviceID] = w
	}
	return w
}

// Sample issues one health-check request. Success is a 2xx response;
// any transport error, timeout, or other status yields a failed sample
// whose latency is the elapsed time up to the failure.
func (c *Collector) Sample(ctx context.Context, service models.Service) models.MetricSample {
	start := time.Now()
	sample := models.MetricSample{Timestamp: start.UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(service.URL), nil)
	if err != nil {
		sample.LatencyMs = msSince(start)
		c.logger.Warn("building health probe failed", "service_id", service.ID, "error", err)
		return sample
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	sample.LatencyMs = msSince(start)
	if err != nil {
		c.logger.Debug("health probe failed", "service_id", service.ID, "error", err)
		return sample
	}
	defer resp.Body.Close()

	sample.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !sample.Success {
		c.logger.Debug("health probe returned non-2xx",
			"service_id", service.ID, "status", resp.StatusCode)
	}

	return sample
}

// Collect takes the configured number of sequential samples with a
// fixed inter-sample delay and appends them all to the service's
// rolling window.
func (c *Collector) Collect(ctx context.Context, service models.Service, sampleSize int) []models.MetricSample {
	if sampleSize <= 0 {
		sampleSize = c.sampleSize
	}

	window := c.Window(service.ID)
	samples := make([]models.MetricSample, 0, sampleSize)

	for i := 0; i < sampleSize; i++ {
		sample := c.Sample(ctx, service)
		samples = append(samples, sample)
		window.Append(sample)

		if i < sampleSize-1 && c.sampleDelay > 0 {
			select {
			case <-ctx.Done():
				return samples
			case <-time.After(c.sampleDelay):
			}
		}
	}

	return samples
}

func healthURL(base string) string {
	return strings.TrimRight(base, "/") + "/health"
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
