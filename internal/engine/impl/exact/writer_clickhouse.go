package exact

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact/statistic"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// OldestMsg/NewestMsg are stored in the MM/DD HH:MM:SS render used by the
// report: with the implied-year assumption the format sorts
// lexicographically in chronological order, so min/max over the strings
// stays correct in queries.
const createTableStatement = `
CREATE TABLE IF NOT EXISTS host_stats (
    Timestamp   DateTime,
    TaskName    String,
    Host        String,
    AlertCount  UInt64,
    OldestMsg   String,
    NewestMsg   String,
    TotalLength UInt64,
    LineCount   UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (TaskName, Host, Timestamp);
`

const timestampLayout = "01/02 15:04:05"

// ClickHouseWriter implements the model.Writer interface for ClickHouse.
type ClickHouseWriter struct {
	conn     driver.Conn
	interval time.Duration
}

// NewClickHouseWriter creates a new ClickHouse writer.
func NewClickHouseWriter(cfg config.ClickHouseConfig, interval time.Duration) (model.Writer, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn, interval: interval}, nil
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *ClickHouseWriter) GetInterval() time.Duration {
	return w.interval
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts per-host statistics into the ClickHouse host_stats table.
func (w *ClickHouseWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(statistic.SnapshotData)
	if !ok {
		return fmt.Errorf("invalid payload type for ClickHouse Writer: expected statistic.SnapshotData, got %T", payload)
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO host_stats")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	snapshotTime, _ := time.Parse("2006-01-02_15-04-05", timestamp)
	hostCount := 0

	for _, shard := range snapshot.Shards {
		for host, stats := range shard.Hosts {
			hostCount++
			err = batch.Append(
				snapshotTime,
				snapshot.TaskName,
				host,
				stats.Alerts,
				stats.Oldest.Format(timestampLayout),
				stats.Newest.Format(timestampLayout),
				stats.TotalLength,
				stats.Count,
			)
			if err != nil {
				return fmt.Errorf("failed to append host stats to batch: %w", err)
			}
		}
	}

	if hostCount == 0 {
		return nil // Nothing to write
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote stats for %d hosts to ClickHouse for task '%s'", hostCount, snapshot.TaskName)
	return nil
}
