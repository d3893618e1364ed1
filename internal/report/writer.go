// Package report writes the append-only build and optimization report
// artifacts. Reports are external evidence: a new timestamped document
// per invocation, never mutated and never read back into live state.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// timestampLayout keeps report filenames filesystem-safe and sortable.
const timestampLayout = "2006-01-02T15-04-05Z"

// Writer persists report documents under a single directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteBuildReport writes one build invocation's report and returns the
// artifact path.
func (w *Writer) WriteBuildReport(r models.BuildReport) (string, error) {
	name := fmt.Sprintf("build-report-%s.json", r.Timestamp.UTC().Format(timestampLayout))
	return w.write(name, r)
}

// WriteOptimizationReport writes one loop report and returns the
// artifact path.
func (w *Writer) WriteOptimizationReport(r models.OptimizationReport) (string, error) {
	name := fmt.Sprintf("optimization-report-%s.json", r.Timestamp.UTC().Format(timestampLayout))
	return w.write(name, r)
}

func (w *Writer) write(name string, doc any) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory %s: %w", w.dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing report: %w", err)
	}

	path := filepath.Join(w.dir, name)
	// Reports are append-only artifacts: never overwrite an existing one.
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(w.dir, fmt.Sprintf("%s-%d.json",
			name[:len(name)-len(".json")], time.Now().UnixNano()))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}

	w.logger.Info("report written", "path", path)
	return path, nil
}
