package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/mccannj9/SyslogAnalyzer/internal/engine/pool"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
	"github.com/mccannj9/SyslogAnalyzer/pkg/chunker"
)

func main() {
	inputPath := flag.String("i", "", "Input logfile path (default stdin)")
	outputPath := flag.String("o", "", "Output file path (default stdout)")
	workers := flag.Int("n", 1, "Number of workers")
	chunkSize := flag.Int("c", 10000, "Lines per batch")
	queueCap := flag.Int("q", 0, "Batch queue capacity (0 for default)")
	flag.Parse()

	// 1. Open the input source
	var input io.Reader = os.Stdin
	if *inputPath != "" {
		file, err := os.Open(*inputPath)
		if err != nil {
			log.Fatalf("Failed to open input file: %v", err)
		}
		defer file.Close()
		input = file
		log.Printf("Reading lines from '%s'...", *inputPath)
	} else {
		log.Println("Reading lines from stdin...")
	}

	// 2. Build the batching scanner
	scanner, err := chunker.NewScanner(input, *chunkSize)
	if err != nil {
		log.Fatalf("Failed to create scanner: %v", err)
	}

	// 3. Run the worker pool
	log.Printf("Starting %d workers with batch size %d...", *workers, *chunkSize)
	report, err := pool.New(*workers, *queueCap).Run(scanner)
	if errors.Is(err, model.ErrNoData) {
		log.Println("No valid records found in input.")
		return
	}
	if err != nil {
		log.Fatalf("Aggregation failed: %v", err)
	}
	log.Printf("Aggregated %d records across %d hosts.", report.Overall.Count, len(report.PerHost))

	// 4. Write the report
	var output io.Writer = os.Stdout
	if *outputPath != "" {
		file, err := os.Create(*outputPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer file.Close()
		output = file
		log.Printf("Writing report to '%s'...", *outputPath)
	}

	if err := report.WriteTab(output); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.Println("Done.")
}
