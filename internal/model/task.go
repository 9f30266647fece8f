package model

// Task defines a single, self-contained aggregation task (e.g., exact per-host stats, sketch, etc.).
// This is the interface for the "execution layer".
type Task interface {
	ProcessRecord(rec *LogRecord)
	Snapshot() interface{}
	Reset()
	Name() string
}
