package sketch

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/sketch/statistic"
	"github.com/mccannj9/SyslogAnalyzer/internal/factory"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterAggregator("sketch", func(cfg *config.Config) (*factory.TaskGroup, error) {
		sketchCfg := cfg.Aggregator.Sketch

		// Create all enabled writers for this aggregator group
		writers := make([]model.Writer, 0, len(sketchCfg.Writers))
		for _, writerDef := range sketchCfg.Writers {
			if !writerDef.Enabled {
				continue
			}

			interval, err := time.ParseDuration(writerDef.SnapshotInterval)
			if err != nil {
				log.Printf("Warning: invalid snapshot_interval for writer type '%s': %v, skipping.", writerDef.Type, err)
				continue
			}

			var writer model.Writer
			switch writerDef.Type {
			case "text":
				writer = NewTextWriter(writerDef.Text.RootPath, interval)
				log.Printf("Text writer created at %s", writerDef.Text.RootPath)
			default:
				log.Printf("Warning: unknown writer type '%s' in sketch aggregator config, skipping.", writerDef.Type)
				continue
			}
			writers = append(writers, writer)
		}

		// Create all tasks for this aggregator group
		tasks := make([]model.Task, len(sketchCfg.Tasks))
		for i, taskCfg := range sketchCfg.Tasks {
			tasks[i] = New(taskCfg)
		}

		return &factory.TaskGroup{Tasks: tasks, Writers: writers}, nil
	})
}

// --- Task Implementation ---

// Task estimates hot hosts with a count-min sketch keyed by hostname. It is
// a memory-bounded companion to the exact task: the sketch never allocates
// per host, so an unbounded fleet cannot grow its footprint. Exact numbers
// remain the province of the exact task.
type Task struct {
	name   string
	mu     sync.Mutex
	sketch statistic.Sketch
}

// HotHosts is the snapshot payload: the estimated heavy hitters of one
// measurement period.
type HotHosts struct {
	TaskName string
	Hosts    []statistic.HeavyRecord
}

// New creates a new sketch task based on the provided configuration.
func New(cfg config.SketchTaskDef) model.Task {
	log.Printf("Creating CountMin sketch '%s' with width %d, depth %d, count_threshold %d",
		cfg.Name, cfg.Width, cfg.Depth, cfg.CountThreshold)
	return &Task{
		name:   cfg.Name,
		sketch: statistic.NewCountMin(cfg.Width, cfg.Depth, cfg.CountThreshold),
	}
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// ProcessRecord counts one line against the record's host.
func (t *Task) ProcessRecord(rec *model.LogRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sketch.Insert([]byte(rec.Host))
}

// Query estimates the line count observed for a host.
func (t *Task) Query(host string) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sketch.Query([]byte(host))
}

// Snapshot extracts the current heavy hitters.
func (t *Task) Snapshot() interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return HotHosts{
		TaskName: t.name,
		Hosts:    t.sketch.HeavyHitters(),
	}
}

// Reset clears the internal state of the task, preparing for a new measurement period.
func (t *Task) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sketch.Reset()
}

// AlerterMsg evaluates rules against the estimated hot hosts and returns an HTML string if triggered.
func (t *Task) AlerterMsg(rules []config.AlerterRule) string {
	snapshotData, ok := t.Snapshot().(HotHosts)
	if !ok {
		log.Printf("ERROR: AlerterMsg in sketch task received unexpected snapshot type: %T", t.Snapshot())
		return ""
	}

	var triggeredMessages []string

	for _, rule := range rules {
		if rule.TaskName != t.name || rule.Metric != "hot_host_count" {
			continue
		}

		var hitters []string
		for _, host := range snapshotData.Hosts {
			if check(float64(host.Count), rule.Threshold, rule.Operator) {
				hitters = append(hitters, fmt.Sprintf("<tr><td><code>%s</code></td><td>%d</td></tr>", host.Host, host.Count))
			}
		}

		if len(hitters) > 0 {
			itemsTable := fmt.Sprintf("<table border=\"1\" cellpadding=\"5\" cellspacing=\"0\">"+
				"<tr><th>Host</th><th>Estimated Lines</th></tr>%s</table>", strings.Join(hitters, ""))

			msg := fmt.Sprintf("<h3>Alert: %s</h3>"+
				"<ul>"+
				"<li><b>Task:</b> <code>%s</code></li>"+
				"<li><b>Metric:</b> <code>%s</code></li>"+
				"<li><b>Condition:</b> <code>%s %.2f</code></li>"+
				"</ul>"+
				"<p><b>Triggering Hosts:</b></p>%s",
				rule.Name, rule.TaskName, rule.Metric, rule.Operator, rule.Threshold, itemsTable)
			triggeredMessages = append(triggeredMessages, msg)
		}
	}

	return strings.Join(triggeredMessages, "<br><hr><br>")
}

// check compares a value against a threshold based on an operator.
func check(value, threshold float64, operator string) bool {
	switch operator {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case "=":
		return value == threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	default:
		log.Printf("Warning: unknown operator '%s' in alerter rule", operator)
		return false
	}
}
