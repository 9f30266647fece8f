package exact

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact/statistic"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// TextWriter renders the canonical tab-delimited report for each snapshot.
// It implements the model.Writer interface.
type TextWriter struct {
	rootPath string
	interval time.Duration
}

// NewTextWriter creates a new text report writer.
func NewTextWriter(rootPath string, interval time.Duration) model.Writer {
	return &TextWriter{rootPath: rootPath, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *TextWriter) GetInterval() time.Duration {
	return w.interval
}

// Write renders the snapshot as the tab-delimited host report.
func (w *TextWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(statistic.SnapshotData)
	if !ok {
		return fmt.Errorf("invalid payload type for TextWriter: expected statistic.SnapshotData, got %T", payload)
	}

	taskDir := filepath.Join(w.rootPath, timestamp, snapshot.TaskName)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(taskDir, "report.tsv")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", filePath, err)
	}
	defer file.Close()

	report := snapshot.BuildReport()
	if err := report.WriteTab(file); err != nil {
		if errors.Is(err, model.ErrNoData) {
			log.Printf("No records in snapshot for task '%s', report skipped.", snapshot.TaskName)
			return nil
		}
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Printf("Wrote report for %d hosts to %s", len(report.PerHost), filePath)
	return nil
}
