package models

import "time"

// LoadLevel is a coarse classification of a service's current latency
// relative to its target.
type LoadLevel string

const (
	LoadLow    LoadLevel = "low"
	LoadMedium LoadLevel = "medium"
	LoadHigh   LoadLevel = "high"
)

// ScalingAction is the decision produced for one tick.
type ScalingAction string

const (
	ScaleUp   ScalingAction = "scale_up"
	ScaleDown ScalingAction = "scale_down"
	ScaleNone ScalingAction = "none"
)

// ScalingBounds constrain the instance count for a service.
type ScalingBounds struct {
	MinInstances int `json:"min_instances" yaml:"min_instances"`
	MaxInstances int `json:"max_instances" yaml:"max_instances"`
}

// ScalingEvent records one instance-count transition. Events are
// immutable once appended; they record intent, not execution.
type ScalingEvent struct {
	ID            string        `json:"id"`
	ServiceID     string        `json:"service_id"`
	Timestamp     time.Time     `json:"timestamp"`
	Action        ScalingAction `json:"action"`
	FromInstances int           `json:"from_instances"`
	ToInstances   int           `json:"to_instances"`
	Reason        string        `json:"reason"`
}

// ScalingState is the per-service scaling record. The instance count is
// mutated only by the decision engine; history is append-only.
type ScalingState struct {
	ServiceID        string         `json:"service_id"`
	CurrentInstances int            `json:"current_instances"`
	LoadLevel        LoadLevel      `json:"load_level"`
	History          []ScalingEvent `json:"history"`
}

// Clone returns a deep copy so readers never observe in-place mutation.
func (s *ScalingState) Clone() *ScalingState {
	out := &ScalingState{
		ServiceID:        s.ServiceID,
		CurrentInstances: s.CurrentInstances,
		LoadLevel:        s.LoadLevel,
		History:          make([]ScalingEvent, len(s.History)),
	}
	copy(out.History, s.History)
	return out
}

// ScaleRequestResult is the provider adapter's response to a scaling
// request. It is advisory: the recorded ScalingEvent is not rolled back
// when the adapter declines or fails.
type ScaleRequestResult struct {
	Accepted bool   `json:"accepted"`
	Detail   string `json:"detail"`
}

// ExecutionMismatch surfaces a divergence between a recorded scaling
// event and the provider adapter's response to it.
type ExecutionMismatch struct {
	EventID   string    `json:"event_id"`
	ServiceID string    `json:"service_id"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}
