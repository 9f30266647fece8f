package statistic

import (
	"sync"

	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// Shard is a part of a sharded host map, containing its own map and a mutex.
type Shard struct {
	Hosts map[string]*model.Stats
	Mu    sync.RWMutex
}

// SnapshotData represents the full snapshot for a single exact task.
// This is the data structure returned by the Snapshot() method.
type SnapshotData struct {
	TaskName string
	Shards   []*Shard
}

// BuildReport merges every host scope in the snapshot into a Report with a
// freshly derived overall scope. Snapshot shards are already private copies,
// so no locking is needed here.
func (s SnapshotData) BuildReport() *model.Report {
	report := &model.Report{
		Overall: model.NewStats(),
		PerHost: make(map[string]*model.Stats),
	}
	for _, shard := range s.Shards {
		for host, stats := range shard.Hosts {
			report.Overall.Merge(stats)
			copied := *stats
			report.PerHost[host] = &copied
		}
	}
	return report
}
