package exact

import (
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact/statistic"
	"github.com/mccannj9/SyslogAnalyzer/internal/factory"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterAggregator("exact", func(cfg *config.Config) (*factory.TaskGroup, error) {
		exactCfg := cfg.Aggregator.Exact

		// Create all enabled writers for this aggregator group
		writers := make([]model.Writer, 0, len(exactCfg.Writers))
		for _, writerDef := range exactCfg.Writers {
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
			case "gob":
				writer = NewGobWriter(writerDef.Gob.RootPath, interval)
			case "text":
				writer = NewTextWriter(writerDef.Text.RootPath, interval)
			case "clickhouse":
				writer, err = NewClickHouseWriter(writerDef.ClickHouse, interval)
				if err != nil {
					log.Printf("Warning: failed to create writer type '%s': %v, skipping.", writerDef.Type, err)
					continue
				}
			default:
				log.Printf("Warning: unknown writer type '%s' in config, skipping.", writerDef.Type)
				continue
			}
			writers = append(writers, writer)
		}

		// Create all tasks for this aggregator group
		tasks := make([]model.Task, len(exactCfg.Tasks))
		for i, taskCfg := range exactCfg.Tasks {
			tasks[i] = New(taskCfg.Name, taskCfg.NumShards)
		}

		return &factory.TaskGroup{Tasks: tasks, Writers: writers}, nil
	})
}

// --- Task Implementation ---

const defaultShardCount = 256

// Task keeps exact per-host statistics in a sharded map. Unlike the batch
// pipeline, the streaming path never terminates, so share-nothing reduction
// is replaced by per-shard locks; the Update/Merge math is identical, which
// keeps the numbers consistent between the two paths.
// It implements the model.Task interface.
type Task struct {
	name       string
	shards     []*statistic.Shard
	shardCount uint32
}

// New creates a new exact aggregation task.
func New(name string, numShards uint32) model.Task {
	if numShards <= 0 || numShards >= 32768 {
		numShards = defaultShardCount
	}
	log.Printf("Creating ExactTask '%s' with %d shards", name, numShards)
	task := &Task{
		name:       name,
		shards:     make([]*statistic.Shard, numShards),
		shardCount: numShards,
	}
	for i := 0; i < int(numShards); i++ {
		task.shards[i] = &statistic.Shard{
			Hosts: make(map[string]*model.Stats),
		}
	}
	return task
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// ProcessRecord folds a single record into the host's scope, creating the
// scope lazily on first sight of that host.
func (t *Task) ProcessRecord(rec *model.LogRecord) {
	shard := t.getShard(rec.Host)
	shard.Mu.Lock()
	defer shard.Mu.Unlock()

	stats, ok := shard.Hosts[rec.Host]
	if !ok {
		stats = model.NewStats()
		shard.Hosts[rec.Host] = stats
	}
	stats.Update(rec)
}

// Snapshot returns a deep copy of the current aggregated data.
// Suitable for write-heavy, read-light scenarios.
// Concurrent writes are safe; snapshot reflects a consistent state at the moment of call.
func (t *Task) Snapshot() interface{} {
	snapshotShards := make([]*statistic.Shard, t.shardCount)
	var wg sync.WaitGroup
	wg.Add(int(t.shardCount)) // Wait for all shards to finish copying

	for i := 0; i < int(t.shardCount); i++ {
		go func(i int) {
			defer wg.Done()

			shard := t.shards[i]

			// Acquire read lock to safely read shard.Hosts
			// Allows concurrent reads but blocks writes
			shard.Mu.RLock()

			// Deep copy the host map to ensure the snapshot is independent
			copiedHosts := make(map[string]*model.Stats, len(shard.Hosts))
			for k, v := range shard.Hosts {
				statsCopy := *v
				copiedHosts[k] = &statsCopy
			}

			shard.Mu.RUnlock() // Release read lock

			snapshotShards[i] = &statistic.Shard{
				Hosts: copiedHosts,
			}
		}(i)
	}

	wg.Wait() // Wait until all shard snapshots are complete

	return statistic.SnapshotData{
		TaskName: t.name,
		Shards:   snapshotShards,
	}
}

// Reset clears the internal state of the task, preparing for a new measurement period.
func (t *Task) Reset() {
	var wait sync.WaitGroup
	wait.Add(int(t.shardCount)) // Wait for all shards to be reset

	for i := 0; i < int(t.shardCount); i++ {
		go func(i int) {
			defer wait.Done()
			shard := t.shards[i]
			shard.Mu.Lock()
			shard.Hosts = make(map[string]*model.Stats) // Reset with a new empty map
			shard.Mu.Unlock()
		}(i)
	}

	wait.Wait() // Wait until all shards are reset
}

// AlerterMsg evaluates rules against the task's aggregated data and returns an HTML string if triggered.
func (t *Task) AlerterMsg(rules []config.AlerterRule) string {
	// Perform a snapshot to get the latest data for evaluation.
	snapshotData, ok := t.Snapshot().(statistic.SnapshotData)
	if !ok {
		log.Printf("ERROR: AlerterMsg in exact task received unexpected snapshot type: %T", t.Snapshot())
		return ""
	}

	report := snapshotData.BuildReport()

	var triggeredMessages []string

	for _, rule := range rules {
		if rule.TaskName != t.name {
			continue
		}

		var triggered bool
		var currentValue float64
		var unit string

		switch rule.Metric {
		case "alert_count":
			currentValue = float64(report.Overall.Alerts)
			unit = "alerts"
			triggered = check(currentValue, rule.Threshold, rule.Operator)
		case "line_count":
			currentValue = float64(report.Overall.Count)
			unit = "lines"
			triggered = check(currentValue, rule.Threshold, rule.Operator)
		case "host_count":
			currentValue = float64(len(report.PerHost))
			unit = "hosts"
			triggered = check(currentValue, rule.Threshold, rule.Operator)
		}

		if triggered {
			msg := fmt.Sprintf("<h3>Alert: %s</h3>"+
				"<ul>"+
				"<li><b>Task:</b> <code>%s</code></li>"+
				"<li><b>Metric:</b> <code>%s</code></li>"+
				"<li><b>Condition:</b> <code>%s %.2f</code></li>"+
				"<li><b>Observed Value:</b> <code>%.0f %s</code></li>"+
				"</ul>",
				rule.Name, rule.TaskName, rule.Metric, rule.Operator, rule.Threshold, currentValue, unit)
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

// getShard returns the appropriate shard for a given host key.
func (t *Task) getShard(host string) *statistic.Shard {
	hasher := fnv.New32a()
	hasher.Write([]byte(host))
	return t.shards[hasher.Sum32()%t.shardCount]
}
