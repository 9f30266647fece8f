package pool

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/mccannj9/SyslogAnalyzer/internal/model"
	"github.com/mccannj9/SyslogAnalyzer/pkg/chunker"
)

func newSource(t *testing.T, lines []string, batchSize int) *chunker.Scanner {
	t.Helper()
	s, err := chunker.NewScanner(strings.NewReader(strings.Join(lines, "\n")), batchSize)
	if err != nil {
		t.Fatalf("Failed to create scanner: %v", err)
	}
	return s
}

var scenarioLines = []string{
	"<0>Jan 1 00:00:05 hostA test",
	"<5>Jan 1 00:00:10 hostA connection refused",
	"<14>Jan 1 00:00:02 hostB hi",
}

func TestRun_Scenario(t *testing.T) {
	report, err := New(2, 4).Run(newSource(t, scenarioLines, 2))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	overall := report.Overall
	if overall.Alerts != 1 {
		t.Errorf("Expected 1 alert, got %d", overall.Alerts)
	}
	if overall.Count != 3 {
		t.Errorf("Expected 3 records, got %d", overall.Count)
	}
	if overall.TotalLength != 24 {
		t.Errorf("Expected total length 24, got %d", overall.TotalLength)
	}
	if avg := overall.AverageLength(); avg != 8.0 {
		t.Errorf("Expected average length 8.0, got %v", avg)
	}
	if got := overall.Oldest.Format("01/02 15:04:05"); got != "01/01 00:00:02" {
		t.Errorf("Expected oldest 01/01 00:00:02, got %s", got)
	}
	if got := overall.Newest.Format("01/02 15:04:05"); got != "01/01 00:00:10" {
		t.Errorf("Expected newest 01/01 00:00:10, got %s", got)
	}

	hostA := report.PerHost["hostA"]
	if hostA == nil || hostA.Count != 2 || hostA.Alerts != 1 {
		t.Errorf("Unexpected hostA stats: %+v", hostA)
	}
	hostB := report.PerHost["hostB"]
	if hostB == nil || hostB.Count != 1 || hostB.Alerts != 0 {
		t.Errorf("Unexpected hostB stats: %+v", hostB)
	}
}

func TestRun_SingleRecordSentinels(t *testing.T) {
	report, err := New(1, 1).Run(newSource(t, []string{"<3>Mar 15 08:30:00 db01 checkpoint"}, 10))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Both sentinel comparisons must trigger for the first record.
	if !report.Overall.Oldest.Equal(report.Overall.Newest) {
		t.Errorf("Single record: oldest %v != newest %v", report.Overall.Oldest, report.Overall.Newest)
	}
}

func TestRun_ShardingEquivalence(t *testing.T) {
	// Output must be byte-identical regardless of worker count and batch size.
	lines := generateLines(5000)

	render := func(workers, batchSize int) string {
		report, err := New(workers, 16).Run(newSource(t, lines, batchSize))
		if err != nil {
			t.Fatalf("Run with %d workers failed: %v", workers, err)
		}
		var buf bytes.Buffer
		if err := report.WriteTab(&buf); err != nil {
			t.Fatalf("WriteTab failed: %v", err)
		}
		return buf.String()
	}

	reference := render(1, 10000)
	for _, cfg := range []struct{ workers, batchSize int }{
		{1, 7}, {2, 100}, {4, 1}, {8, 250}, {8, 10000},
	} {
		if got := render(cfg.workers, cfg.batchSize); got != reference {
			t.Errorf("Output diverged for workers=%d batch=%d", cfg.workers, cfg.batchSize)
		}
	}
}

func TestRun_PermutationInvariance(t *testing.T) {
	lines := generateLines(1000)

	render := func(lines []string) string {
		report, err := New(4, 8).Run(newSource(t, lines, 32))
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		var buf bytes.Buffer
		if err := report.WriteTab(&buf); err != nil {
			t.Fatalf("WriteTab failed: %v", err)
		}
		return buf.String()
	}

	reference := render(lines)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 3; trial++ {
		shuffled := append([]string(nil), lines...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := render(shuffled); got != reference {
			t.Errorf("Output diverged for permutation %d", trial)
		}
	}
}

func TestRun_EmptyInput(t *testing.T) {
	_, err := New(4, 8).Run(newSource(t, nil, 100))
	if !errors.Is(err, model.ErrNoData) {
		t.Errorf("Expected ErrNoData for empty input, got %v", err)
	}
}

func TestRun_SkipsMalformedLines(t *testing.T) {
	lines := []string{
		"<0>Jan 1 00:00:05 hostA test",
		"this line is garbage",
		"<5>Feb 30 00:00:00 hostA bad date",
		"<14>Jan 1 00:00:02 hostB hi",
	}
	report, err := New(2, 4).Run(newSource(t, lines, 1))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Overall.Count != 2 {
		t.Errorf("Expected 2 valid records, got %d", report.Overall.Count)
	}
	if report.Skipped != 2 {
		t.Errorf("Expected 2 skipped lines, got %d", report.Skipped)
	}
}

func TestRun_OnlyMalformedLines(t *testing.T) {
	_, err := New(2, 4).Run(newSource(t, []string{"junk", "more junk"}, 10))
	if !errors.Is(err, model.ErrNoData) {
		t.Errorf("Expected ErrNoData when every line is malformed, got %v", err)
	}
}

func TestReduce_FailsOnErroredShard(t *testing.T) {
	good := model.NewShardResult()
	bad := model.NewShardResult()
	bad.Err = errors.New("worker terminated abnormally")

	if _, err := Reduce([]*model.ShardResult{good, bad}, 2); err == nil {
		t.Errorf("Reduce should fail when a shard errored")
	}
}

func TestReduce_FailsOnMissingShard(t *testing.T) {
	if _, err := Reduce([]*model.ShardResult{model.NewShardResult()}, 2); err == nil {
		t.Errorf("Reduce should fail when a shard is missing")
	}
}

func TestReduce_AverageAcrossUnequalShards(t *testing.T) {
	// Shard sizes differ; a naive average-of-averages would weight them
	// equally and get 30 instead of the true 20.
	a := model.NewShardResult()
	a.Fold(&model.LogRecord{Host: "h1", Length: 10})
	a.Fold(&model.LogRecord{Host: "h1", Length: 10})
	a.Fold(&model.LogRecord{Host: "h1", Length: 10})
	b := model.NewShardResult()
	b.Fold(&model.LogRecord{Host: "h1", Length: 50})

	report, err := Reduce([]*model.ShardResult{a, b}, 2)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if avg := report.Overall.AverageLength(); avg != 20.0 {
		t.Errorf("Expected average 20.0, got %v", avg)
	}
}

// generateLines produces a deterministic mix of hosts, severities and
// message lengths across several days.
func generateLines(n int) []string {
	hosts := []string{"web01", "web02", "db01", "cache01", "lb01"}
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		day := i%27 + 1
		line := fmt.Sprintf("<%d>Jan %d %02d:%02d:%02d %s message number %d",
			i%192, day, i%24, i%60, (i*7)%60, hosts[i%len(hosts)], i)
		lines = append(lines, line)
	}
	return lines
}
