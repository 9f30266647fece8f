package persistent

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
)

// Worker manages a pool of goroutines for persistently spooling received
// lines to disk.
type Worker struct {
	lineChan chan string
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates and starts a new persistent worker pool.
func NewWorker(cfg config.PersistenceConfig) (*Worker, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create persistence directory: %w", err)
	}

	bufferSize := cfg.ChannelBufferSize
	if bufferSize <= 0 {
		bufferSize = 10000 // Default value
	}

	w := &Worker{
		lineChan: make(chan string, bufferSize),
		stopChan: make(chan struct{}),
	}

	w.Start(cfg)
	return w, nil
}

// Start launches the worker goroutines.
func (w *Worker) Start(cfg config.PersistenceConfig) {
	file, err := w.createOutputFile(cfg)
	if err != nil {
		log.Fatalf("PersistentWorker: Failed to create output file: %v", err)
	}

	var workerFunc func(file *os.File)
	switch cfg.Encoding {
	case "gob":
		workerFunc = w.runGobWorker
	case "text":
		workerFunc = w.runTextWorker
	default:
		log.Printf("PersistentWorker: Unknown encoding '%s', workers will not start.", cfg.Encoding)
		file.Close()
		return
	}

	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1 // A single writer keeps lines in arrival order
	}

	w.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer w.wg.Done()
			workerFunc(file)
		}()
	}

	go func() {
		<-w.stopChan
		close(w.lineChan)
		w.wg.Wait()
		if err := file.Close(); err != nil {
			log.Printf("PersistentWorker: Error closing file: %v", err)
		}
		log.Println("Persistent worker stopped and file closed.")
	}()

	log.Printf("Persistent worker started with %d goroutines, encoding: %s, writing to: %s", numWorkers, cfg.Encoding, file.Name())
}

func (w *Worker) createOutputFile(cfg config.PersistenceConfig) (*os.File, error) {
	ext := ".log"
	if cfg.Encoding == "gob" {
		ext = ".gob"
	}
	fileName := fmt.Sprintf("%s%s", time.Now().Format("2006-01-02_15-04-05"), ext)
	filePath := filepath.Join(cfg.Path, fileName)
	return os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY, 0644)
}

func (w *Worker) runGobWorker(file *os.File) {
	encoder := gob.NewEncoder(file)
	for line := range w.lineChan {
		if err := encoder.Encode(line); err != nil {
			log.Printf("PersistentWorker (gob): Error encoding line: %v", err)
		}
	}
}

func (w *Worker) runTextWorker(file *os.File) {
	writer := bufio.NewWriter(file)
	for line := range w.lineChan {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			log.Printf("PersistentWorker (text): Error writing line: %v", err)
		}
	}
	writer.Flush()
}

// Stop gracefully shuts down the worker pool.
func (w *Worker) Stop() {
	close(w.stopChan)
}

// Enqueue sends a line to the worker channel for spooling.
func (w *Worker) Enqueue(line string) {
	select {
	case w.lineChan <- line:
	default:
		log.Println("PersistentWorker: Channel is full, dropping line.")
	}
}
