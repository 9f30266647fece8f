package exact

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact/statistic"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

func init() {
	// Register the concrete type of Stats for gob encoding/decoding.
	gob.Register(&model.Stats{})
}

// SummaryData holds the metadata for a snapshot, internal to the writer.
type SummaryData struct {
	TaskName    string `json:"task_name"`
	TotalHosts  int    `json:"total_hosts"`
	TotalLines  uint64 `json:"total_lines"`
	TotalAlerts uint64 `json:"total_alerts"`
	Shards      int    `json:"shards"`
	Timestamp   string `json:"timestamp"`
}

// GobWriter handles writing aggregation task snapshot data to disk in gob format.
// It implements the model.Writer interface.
type GobWriter struct {
	rootPath string
	interval time.Duration
}

// NewGobWriter creates a new writer for aggregation task data.
func NewGobWriter(rootPath string, interval time.Duration) model.Writer {
	return &GobWriter{rootPath: rootPath, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *GobWriter) GetInterval() time.Duration {
	return w.interval
}

// Write serializes and writes the data from a single aggregation task snapshot to disk.
// It expects the payload to be of type statistic.SnapshotData.
func (w *GobWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(statistic.SnapshotData)
	if !ok {
		return fmt.Errorf("invalid payload type for GobWriter: expected statistic.SnapshotData, got %T", payload)
	}

	// 1. Create timestamped directory
	snapshotDir := filepath.Join(w.rootPath, timestamp)
	// Let's make a subdirectory for the task to avoid file name collisions
	taskDir := filepath.Join(snapshotDir, snapshot.TaskName)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	totalHosts := 0
	totalLines, totalAlerts := uint64(0), uint64(0)
	// 2. Write each shard's map to a .dat file
	for i, shard := range snapshot.Shards {
		if len(shard.Hosts) == 0 {
			continue
		}
		totalHosts += len(shard.Hosts)
		for _, stats := range shard.Hosts {
			totalLines += stats.Count
			totalAlerts += stats.Alerts
		}

		fileName := fmt.Sprintf("shard_%d.dat", i)
		filePath := filepath.Join(taskDir, fileName)

		file, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("failed to create snapshot file '%s': %w", filePath, err)
		}
		defer file.Close()

		encoder := gob.NewEncoder(file)
		if err := encoder.Encode(shard.Hosts); err != nil {
			return fmt.Errorf("failed to encode host stats to gob for file '%s': %w", filePath, err)
		}
	}

	// 3. Write summary file if there were any hosts
	if totalHosts > 0 {
		summary := SummaryData{
			TaskName:    snapshot.TaskName,
			TotalHosts:  totalHosts,
			TotalLines:  totalLines,
			TotalAlerts: totalAlerts,
			Shards:      len(snapshot.Shards),
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}
		summaryFilePath := filepath.Join(taskDir, "summary.json")
		summaryFile, err := os.Create(summaryFilePath)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer summaryFile.Close()

		jsonEncoder := json.NewEncoder(summaryFile)
		jsonEncoder.SetIndent("", "  ")
		if err := jsonEncoder.Encode(summary); err != nil {
			return fmt.Errorf("failed to encode summary to json: %w", err)
		}
	}

	return nil
}
