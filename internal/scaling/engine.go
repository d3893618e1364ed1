// Package scaling derives load levels from performance snapshots and
// drives instance-count decisions under hysteresis and min/max bounds.
package scaling

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

const (
	// lowLoadFactor and highLoadFactor bound the medium band. Latency
	// between 0.5x and 1.5x of target keeps the instance count stable,
	// which is the hysteresis preventing oscillation at the boundary.
	lowLoadFactor  = 0.5
	highLoadFactor = 1.5
)

// Decision is the engine's verdict for one service on one tick.
type Decision struct {
	ServiceID string
	Action    models.ScalingAction
	Event     *models.ScalingEvent
	Instances int
}

// Engine holds per-service scaling state and produces decisions.
type Engine struct {
	logger *slog.Logger

	mu     sync.RWMutex
	states map[string]*models.ScalingState
}

// NewEngine creates an Engine seeded with each service at its minimum
// instance count.
func NewEngine(services []models.Service, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	states := make(map[string]*models.ScalingState, len(services))
	for _, svc := range services {
		states[svc.ID] = &models.ScalingState{
			ServiceID:        svc.ID,
			CurrentInstances: svc.Scaling.MinInstances,
			LoadLevel:        models.LoadMedium,
		}
	}

	return &Engine{logger: logger, states: states}
}

// classifyLoad buckets latency relative to the target threshold.
func classifyLoad(avgLatencyMs, threshold float64) models.LoadLevel {
	switch {
	case avgLatencyMs < lowLoadFactor*threshold:
		return models.LoadLow
	case avgLatencyMs > highLoadFactor*threshold:
		return models.LoadHigh
	default:
		return models.LoadMedium
	}
}

// Decide evaluates one snapshot against the service's threshold and
// bounds, appends a ScalingEvent on any transition, and swaps the
// stored state atomically with a fully-formed replacement.
func (e *Engine) Decide(service models.Service, snapshot models.PerformanceSnapshot) Decision {
	threshold := service.Targets.ResponseTimeMs
	bounds := service.Scaling

	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.states[service.ID]
	if !ok {
		prev = &models.ScalingState{
			ServiceID:        service.ID,
			CurrentInstances: bounds.MinInstances,
			LoadLevel:        models.LoadMedium,
		}
	}

	next := prev.Clone()
	next.LoadLevel = classifyLoad(snapshot.AvgLatencyMs, threshold)

	decision := Decision{
		ServiceID: service.ID,
		Action:    models.ScaleNone,
		Instances: next.CurrentInstances,
	}

	switch {
	case next.LoadLevel == models.LoadHigh &&
		snapshot.AvgLatencyMs > threshold &&
		next.CurrentInstances < bounds.MaxInstances:

		to := min(next.CurrentInstances+1, bounds.MaxInstances)
		event := e.appendEvent(next, models.ScaleUp, to, fmt.Sprintf(
			"average response time %.0fms exceeds %.0fms threshold at high load",
			snapshot.AvgLatencyMs, threshold))
		decision.Action = models.ScaleUp
		decision.Event = event
		decision.Instances = to

	case next.LoadLevel == models.LoadLow &&
		snapshot.AvgLatencyMs < lowLoadFactor*threshold &&
		next.CurrentInstances > bounds.MinInstances:

		to := max(next.CurrentInstances-1, bounds.MinInstances)
		event := e.appendEvent(next, models.ScaleDown, to, fmt.Sprintf(
			"average response time %.0fms is below half the %.0fms threshold at low load",
			snapshot.AvgLatencyMs, threshold))
		decision.Action = models.ScaleDown
		decision.Event = event
		decision.Instances = to
	}

	e.states[service.ID] = next

	if decision.Action != models.ScaleNone {
		e.logger.Info("scaling decision",
			"service_id", service.ID,
			"action", string(decision.Action),
			"from_instances", prev.CurrentInstances,
			"to_instances", decision.Instances,
			"avg_latency_ms", snapshot.AvgLatencyMs,
		)
	}

	return decision
}

func (e *Engine) appendEvent(state *models.ScalingState, action models.ScalingAction, to int, reason string) *models.ScalingEvent {
	event := models.ScalingEvent{
		ID:            uuid.New().String(),
		ServiceID:     state.ServiceID,
		Timestamp:     time.Now().UTC(),
		Action:        action,
		FromInstances: state.CurrentInstances,
		ToInstances:   to,
		Reason:        reason,
	}
	state.CurrentInstances = to
	state.History = append(state.History, event)
	return &event
}

// State returns a copy of one service's scaling state.
func (e *Engine) State(serviceID string) (*models.ScalingState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.states[serviceID]
	if !ok {
		return nil, false
	}
	return state.Clone(), true
}

// States returns a copy of every service's scaling state.
func (e *Engine) States() []*models.ScalingState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*models.ScalingState, 0, len(e.states))
	for _, state := range e.states {
		out = append(out, state.Clone())
	}
	return out
}

// Events returns the most recent scaling events across all services,
// newest last, capped at limit.
func (e *Engine) Events(limit int) []models.ScalingEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var events []models.ScalingEvent
	for _, state := range e.states {
		events = append(events, state.History...)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events
}
