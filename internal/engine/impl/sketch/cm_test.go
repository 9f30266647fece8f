package sketch

import (
	"fmt"
	"testing"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

func TestCountMinTracksHotHosts(t *testing.T) {
	task := New(config.SketchTaskDef{
		Name:           "hot_hosts",
		Width:          1 << 12,
		Depth:          3,
		CountThreshold: 100,
	}).(*Task)

	// One hot host buried in a long tail of one-off hosts.
	hashmap := make(map[string]uint32)
	for i := 0; i < 5000; i++ {
		var host string
		if i%2 == 0 {
			host = "noisy-host"
		} else {
			host = fmt.Sprintf("quiet-host-%d", i)
		}
		task.ProcessRecord(&model.LogRecord{Host: host, Length: 10})
		hashmap[host]++
	}

	estimate := task.Query("noisy-host")
	exact := hashmap["noisy-host"]
	if estimate < exact/2 {
		t.Errorf("Estimate %d too far below exact count %d", estimate, exact)
	}

	snapshot := task.Snapshot().(HotHosts)
	found := false
	for _, host := range snapshot.Hosts {
		if host.Host == "noisy-host" {
			found = true
		}
	}
	if !found {
		t.Errorf("noisy-host missing from heavy hitters: %+v", snapshot.Hosts)
	}
}

func TestCountMinReset(t *testing.T) {
	task := New(config.SketchTaskDef{Name: "hot_hosts", Width: 1 << 10, Depth: 2, CountThreshold: 1}).(*Task)
	for i := 0; i < 100; i++ {
		task.ProcessRecord(&model.LogRecord{Host: "hostA"})
	}
	task.Reset()
	if got := task.Query("hostA"); got != 0 {
		t.Errorf("Expected zero estimate after reset, got %d", got)
	}
	snapshot := task.Snapshot().(HotHosts)
	if len(snapshot.Hosts) != 0 {
		t.Errorf("Expected no heavy hitters after reset, got %+v", snapshot.Hosts)
	}
}
