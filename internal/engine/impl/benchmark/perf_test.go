package test

import (
	"fmt"
	"log"
	"testing"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/sketch"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/syslog"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

var records []*model.LogRecord

func BenchmarkAggregator(b *testing.B) {
	const lineCount = 100000
	hosts := []string{"web01", "web02", "db01", "cache01", "lb01", "mail01", "dns01", "vpn01"}

	log.Printf("Generating %d records...", lineCount)
	for i := 0; i < lineCount; i++ {
		line := fmt.Sprintf("<%d>Jan %d %02d:%02d:%02d %s synthetic message body %d",
			i%192, i%27+1, i%24, i%60, (i*7)%60, hosts[i%len(hosts)], i)
		rec, err := syslog.ParseLine(line)
		if err != nil {
			b.Fatalf("Failed to parse generated line: %v", err)
		}
		records = append(records, rec)
	}

	b.Run("Exact_Parallel", runExactParallel)
	b.Run("Sketch_Parallel", runSketchParallel)
}

func runExactParallel(b *testing.B) {
	task := exact.New("per_host", 256)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for _, rec := range records {
				task.ProcessRecord(rec)
			}
		}
	})
}

func runSketchParallel(b *testing.B) {
	cfg := config.SketchTaskDef{
		Name:           "hot_hosts",
		Width:          1 << 13,
		Depth:          3,
		CountThreshold: 512,
	}
	task := sketch.New(cfg)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for _, rec := range records {
				task.ProcessRecord(rec)
			}
		}
	})
}

func BenchmarkParseLine(b *testing.B) {
	line := "<34>Oct 11 22:14:15 mymachine su: 'su root' failed for lonvick on /dev/pts/8"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := syslog.ParseLine(line); err != nil {
			b.Fatalf("ParseLine failed: %v", err)
		}
	}
}
