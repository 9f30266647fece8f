package main

import (
	"flag"
	"log"
	"os"

	"github.com/mccannj9/SyslogAnalyzer/internal/snapshot"
)

// statsdump re-renders the tab-delimited host report from a gob snapshot
// directory written by the exact aggregator.
func main() {
	rootPath := flag.String("root", "data/snapshots", "Snapshot root path")
	taskName := flag.String("task", "per_host", "Task name to dump")
	taskDir := flag.String("dir", "", "Exact task snapshot directory (overrides -root/-task)")
	flag.Parse()

	dir := *taskDir
	if dir == "" {
		var err error
		dir, err = snapshot.Latest(*rootPath, *taskName)
		if err != nil {
			log.Fatalf("Failed to locate latest snapshot: %v", err)
		}
		log.Printf("Using latest snapshot at %s", dir)
	}

	hosts, err := snapshot.Load(dir)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	report := snapshot.BuildReport(hosts)
	if err := report.WriteTab(os.Stdout); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
}
