package sketch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// TextWriter handles writing estimated hot hosts to a text file.
type TextWriter struct {
	rootPath string
	interval time.Duration
}

// NewTextWriter creates a new text writer for hot hosts.
func NewTextWriter(rootPath string, interval time.Duration) model.Writer {
	return &TextWriter{rootPath: rootPath, interval: interval}
}

func (w *TextWriter) GetInterval() time.Duration {
	return w.interval
}

func (w *TextWriter) Write(payload interface{}, timestamp string) error {
	hotHosts, ok := payload.(HotHosts)
	if !ok {
		return fmt.Errorf("invalid payload type for TextWriter: expected sketch.HotHosts, got %T", payload)
	}

	taskDir := filepath.Join(w.rootPath, timestamp, hotHosts.TaskName)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(taskDir, "hot_hosts.txt")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", filePath, err)
	}
	defer file.Close()

	for _, host := range hotHosts.Hosts {
		line := fmt.Sprintf("%s %d\n", host.Host, host.Count)
		if _, err := file.WriteString(line); err != nil {
			return fmt.Errorf("failed to write hot host to file: %w", err)
		}
	}

	log.Printf("Successfully wrote %d hot hosts to %s\n", len(hotHosts.Hosts), filePath)

	return nil
}
