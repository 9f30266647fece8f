package exact

import (
	"strings"
	"testing"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact/statistic"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/syslog"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

func record(t *testing.T, line string) *model.LogRecord {
	t.Helper()
	rec, err := syslog.ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine(%q) failed: %v", line, err)
	}
	return rec
}

func TestExactTask_ProcessAndSnapshot(t *testing.T) {
	task := New("per_host", 16)

	task.ProcessRecord(record(t, "<0>Jan 1 00:00:05 hostA test"))
	task.ProcessRecord(record(t, "<5>Jan 1 00:00:10 hostA connection refused"))
	task.ProcessRecord(record(t, "<14>Jan 1 00:00:02 hostB hi"))

	snapshot, ok := task.Snapshot().(statistic.SnapshotData)
	if !ok {
		t.Fatalf("Unexpected snapshot type: %T", task.Snapshot())
	}

	report := snapshot.BuildReport()
	if report.Overall.Count != 3 || report.Overall.Alerts != 1 {
		t.Errorf("Unexpected overall stats: %+v", report.Overall)
	}
	if report.Overall.AverageLength() != 8.0 {
		t.Errorf("Expected average 8.0, got %v", report.Overall.AverageLength())
	}

	hostA := report.PerHost["hostA"]
	if hostA == nil || hostA.Count != 2 || hostA.Alerts != 1 {
		t.Errorf("Unexpected hostA stats: %+v", hostA)
	}
	oldest := time.Date(0, time.January, 1, 0, 0, 2, 0, time.UTC)
	if !report.Overall.Oldest.Equal(oldest) {
		t.Errorf("Expected oldest %v, got %v", oldest, report.Overall.Oldest)
	}
}

func TestExactTask_SnapshotIsIndependent(t *testing.T) {
	task := New("per_host", 4)
	task.ProcessRecord(record(t, "<0>Jan 1 00:00:05 hostA test"))

	snapshot := task.Snapshot().(statistic.SnapshotData)

	// Mutating the task after the snapshot must not leak into the copy.
	task.ProcessRecord(record(t, "<0>Jan 1 00:00:06 hostA again"))

	if report := snapshot.BuildReport(); report.Overall.Count != 1 {
		t.Errorf("Snapshot should hold 1 record, got %d", report.Overall.Count)
	}
}

func TestExactTask_Reset(t *testing.T) {
	task := New("per_host", 4)
	task.ProcessRecord(record(t, "<0>Jan 1 00:00:05 hostA test"))
	task.Reset()

	snapshot := task.Snapshot().(statistic.SnapshotData)
	if report := snapshot.BuildReport(); report.Overall.Count != 0 {
		t.Errorf("Expected empty task after reset, got %d records", report.Overall.Count)
	}
}

func TestExactTask_AlerterMsg(t *testing.T) {
	task := New("per_host", 4).(*Task)
	task.ProcessRecord(record(t, "<0>Jan 1 00:00:05 hostA test"))
	task.ProcessRecord(record(t, "<8>Jan 1 00:00:06 hostB ok"))

	rules := []config.AlerterRule{
		{Name: "too many alerts", TaskName: "per_host", Metric: "alert_count", Operator: ">=", Threshold: 1},
		{Name: "quiet fleet", TaskName: "per_host", Metric: "host_count", Operator: ">", Threshold: 10},
		{Name: "other task", TaskName: "elsewhere", Metric: "line_count", Operator: ">", Threshold: 0},
	}

	msg := task.AlerterMsg(rules)
	if !strings.Contains(msg, "too many alerts") {
		t.Errorf("Expected alert_count rule to trigger, got %q", msg)
	}
	if strings.Contains(msg, "quiet fleet") || strings.Contains(msg, "other task") {
		t.Errorf("Unexpected rule triggered: %q", msg)
	}
}
