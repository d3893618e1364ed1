package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// ReportStore implements store.ReportStore using PostgreSQL.
type ReportStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Record appends one optimization report as a JSONB document.
func (s *ReportStore) Record(ctx context.Context, report models.OptimizationReport) error {
	document, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serializing report %s: %w", report.ID, err)
	}

	query := `
		INSERT INTO optimization_reports (id, created_at, ticks, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, report.ID, report.Timestamp, report.Ticks, document); err != nil {
		return fmt.Errorf("recording report %s: %w", report.ID, err)
	}
	return nil
}
