package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/syslog"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

func TestLoad_RoundTripThroughGobWriter(t *testing.T) {
	// 1. Aggregate a few records with an exact task
	task := exact.New("per_host", 8)
	for _, line := range []string{
		"<0>Jan 1 00:00:05 hostA test",
		"<5>Jan 1 00:00:10 hostA connection refused",
		"<14>Jan 1 00:00:02 hostB hi",
	} {
		rec, err := syslog.ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine failed: %v", err)
		}
		task.ProcessRecord(rec)
	}

	// 2. Write a snapshot through the gob writer
	tmpDir, err := os.MkdirTemp("", "snapshot_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	writer := exact.NewGobWriter(tmpDir, time.Minute)
	if err := writer.Write(task.Snapshot(), timestamp); err != nil {
		t.Fatalf("GobWriter.Write failed: %v", err)
	}

	// 3. Load it back
	taskDir := filepath.Join(tmpDir, timestamp, "per_host")
	hosts, err := Load(taskDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(hosts) != 2 {
		t.Fatalf("Expected 2 hosts, got %d", len(hosts))
	}
	hostA := hosts["hostA"]
	if hostA == nil || hostA.Count != 2 || hostA.Alerts != 1 {
		t.Errorf("Unexpected hostA stats: %+v", hostA)
	}

	// 4. The re-derived report matches the original aggregation
	report := BuildReport(hosts)
	if report.Overall.Count != 3 || report.Overall.AverageLength() != 8.0 {
		t.Errorf("Unexpected overall stats: %+v", report.Overall)
	}

	var buf bytes.Buffer
	if err := report.WriteTab(&buf); err != nil {
		t.Fatalf("WriteTab failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Overall\t1\t01/01 00:00:02\t01/01 00:00:10\t8.0")) {
		t.Errorf("Unexpected report output:\n%s", buf.String())
	}

	// 5. Latest finds the snapshot we just wrote
	latest, err := Latest(tmpDir, "per_host")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != taskDir {
		t.Errorf("Expected latest snapshot %s, got %s", taskDir, latest)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	if _, err := Load("/nonexistent/snapshot/dir"); err == nil {
		t.Errorf("Expected error for missing directory")
	}
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(map[string]*model.Stats{})
	if err := report.WriteTab(&bytes.Buffer{}); err != model.ErrNoData {
		t.Errorf("Expected ErrNoData for empty report, got %v", err)
	}
}
