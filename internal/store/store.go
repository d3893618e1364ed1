// Package store provides the optional scaling-history archive. The
// control loop works without a store; when one is configured, scaling
// events and shutdown reports are archived for later inspection.
package store

import (
	"context"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// EventStore archives scaling events.
type EventStore interface {
	// Record appends one scaling event.
	Record(ctx context.Context, event models.ScalingEvent) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.ScalingEvent, error)
}

// ReportStore archives optimization reports.
type ReportStore interface {
	// Record appends one optimization report.
	Record(ctx context.Context, report models.OptimizationReport) error
}

// Store is the main interface for history archiving.
type Store interface {
	// Events returns the EventStore.
	Events() EventStore
	// Reports returns the ReportStore.
	Reports() ReportStore
	// Close closes the underlying connection.
	Close() error
}
