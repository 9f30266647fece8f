package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

func init() {
	gob.Register(&model.Stats{})
}

// Load reads every shard_N.dat file in a task snapshot directory back into
// a single host map. The directory layout is the one produced by the exact
// aggregator's gob writer: <root>/<timestamp>/<task>/shard_N.dat.
func Load(taskDir string) (map[string]*model.Stats, error) {
	entries, err := os.ReadDir(taskDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	hosts := make(map[string]*model.Stats)
	shardFiles := 0

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "shard_") || !strings.HasSuffix(name, ".dat") {
			continue
		}
		shardFiles++

		file, err := os.Open(filepath.Join(taskDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to open shard file '%s': %w", name, err)
		}

		var shard map[string]*model.Stats
		decoder := gob.NewDecoder(file)
		err = decoder.Decode(&shard)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode shard file '%s': %w", name, err)
		}

		// Shards partition the key space, so a host appears in exactly one
		// file; merge anyway to stay correct if that ever changes.
		for host, stats := range shard {
			if existing, ok := hosts[host]; ok {
				existing.Merge(stats)
			} else {
				hosts[host] = stats
			}
		}
	}

	if shardFiles == 0 {
		return nil, fmt.Errorf("no shard files found in '%s'", taskDir)
	}

	return hosts, nil
}

// BuildReport derives a full report (overall scope included) from a loaded
// host map.
func BuildReport(hosts map[string]*model.Stats) *model.Report {
	report := &model.Report{
		Overall: model.NewStats(),
		PerHost: hosts,
	}
	for _, stats := range hosts {
		report.Overall.Merge(stats)
	}
	return report
}

// Latest returns the most recent timestamped snapshot directory for a task
// under the writer's root path.
func Latest(rootPath, taskName string) (string, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot root: %w", err)
	}

	var timestamps []string
	for _, entry := range entries {
		if entry.IsDir() {
			timestamps = append(timestamps, entry.Name())
		}
	}
	if len(timestamps) == 0 {
		return "", fmt.Errorf("no snapshots under '%s'", rootPath)
	}

	// Timestamps are formatted 2006-01-02_15-04-05, so the lexicographic
	// maximum is the newest.
	sort.Strings(timestamps)
	return filepath.Join(rootPath, timestamps[len(timestamps)-1], taskName), nil
}
