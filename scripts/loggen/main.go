package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

// Month lengths for the implied year; the generator never emits an invalid
// calendar date.
var monthDays = map[time.Month]int{
	time.January: 31, time.February: 28, time.March: 31, time.April: 30,
	time.May: 31, time.June: 30, time.July: 31, time.August: 31,
	time.September: 30, time.October: 31, time.November: 30, time.December: 31,
}

var words = []string{
	"session", "opened", "closed", "failed", "password", "authentication",
	"connection", "refused", "accepted", "timeout", "kernel", "panic",
	"disk", "cpu", "memory", "threshold", "exceeded", "restarting", "daemon",
}

func main() {
	outputFile := flag.String("o", "test.log", "Output logfile path ('-' for stdout)")
	lineCount := flag.Int("c", 100000, "Number of lines to generate")
	hostCount := flag.Int("hosts", 20, "Number of distinct hosts")
	seed := flag.Int64("seed", 0, "Random seed (0 for time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	out := os.Stdout
	if *outputFile != "-" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	hosts := make([]string, *hostCount)
	for i := range hosts {
		hosts[i] = fmt.Sprintf("host%02d", i)
	}

	log.Printf("Generating %d lines for %d hosts (seed %d)...", *lineCount, *hostCount, *seed)

	// Timestamps walk forward through the implied year so oldest/newest
	// spread across the file.
	current := time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < *lineCount; i++ {
		if (i+1)%100000 == 0 {
			log.Printf("Generated %d lines...", i+1)
		}

		current = current.Add(time.Duration(rng.Intn(30)) * time.Second)
		if day := monthDays[current.Month()]; current.Day() > day {
			current = time.Date(0, current.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		}

		// Severity mix: mostly routine, occasionally critical.
		severity := rng.Intn(8)
		if rng.Intn(100) < 2 {
			severity = rng.Intn(2)
		}
		pri := rng.Intn(24)*8 + severity

		msgLen := rng.Intn(5) + 2
		msg := ""
		for w := 0; w < msgLen; w++ {
			if w > 0 {
				msg += " "
			}
			msg += words[rng.Intn(len(words))]
		}

		line := fmt.Sprintf("<%d>%s %s %s\n",
			pri,
			current.Format("Jan _2 15:04:05"),
			hosts[rng.Intn(len(hosts))],
			msg,
		)
		if _, err := writer.WriteString(line); err != nil {
			log.Fatalf("Failed to write line: %v", err)
		}
	}

	log.Printf("Done. Wrote %d lines.", *lineCount)
}
