package metrics

import (
	"sync"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// DefaultWindowCapacity is the rolling window size used when none is
// configured.
const DefaultWindowCapacity = 100

// Window is a fixed-capacity rolling window of metric samples. The
// oldest sample is evicted first on overflow. Readers receive copies so
// they never observe in-place mutation.
type Window struct {
	mu       sync.RWMutex
	capacity int
	samples  []models.MetricSample
}

// NewWindow creates a Window with the given capacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &Window{
		capacity: capacity,
		samples:  make([]models.MetricSample, 0, capacity),
	}
}

// Append adds a sample, evicting the oldest when the window is full.
func (w *Window) Append(sample models.MetricSample) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.samples) == w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples[len(w.samples)-1] = sample
		return
	}
	w.samples = append(w.samples, sample)
}

// Snapshot returns a copy of the current samples, oldest first.
func (w *Window) Snapshot() []models.MetricSample {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]models.MetricSample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.samples)
}

// Capacity returns the fixed window capacity.
func (w *Window) Capacity() int {
	return w.capacity
}
