package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExactTaskDef defines a single exact aggregation task from the config file.
type ExactTaskDef struct {
	Name      string `yaml:"name"`
	NumShards uint32 `yaml:"num_shards"`
}

// SketchTaskDef defines a single sketch aggregation task from the config file.
type SketchTaskDef struct {
	Name           string `yaml:"name"`
	Width          uint32 `yaml:"width"`
	Depth          uint32 `yaml:"depth"`
	CountThreshold uint32 `yaml:"count_threshold"`
}

// ClickHouseConfig holds connection details for a ClickHouse instance.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GobWriterConfig holds settings for the gob snapshot writer.
type GobWriterConfig struct {
	RootPath string `yaml:"root_path"`
}

// TextWriterConfig holds settings for the text report writer.
type TextWriterConfig struct {
	RootPath string `yaml:"root_path"`
}

// WriterDef defines one writer attached to an aggregator group.
type WriterDef struct {
	Type             string           `yaml:"type"`
	Enabled          bool             `yaml:"enabled"`
	SnapshotInterval string           `yaml:"snapshot_interval"`
	Gob              GobWriterConfig  `yaml:"gob"`
	Text             TextWriterConfig `yaml:"text"`
	ClickHouse       ClickHouseConfig `yaml:"clickhouse"`
}

// ExactConfig groups the exact aggregator's tasks and writers.
type ExactConfig struct {
	Tasks   []ExactTaskDef `yaml:"tasks"`
	Writers []WriterDef    `yaml:"writers"`
}

// SketchConfig groups the sketch aggregator's tasks and writers.
type SketchConfig struct {
	Tasks   []SketchTaskDef `yaml:"tasks"`
	Writers []WriterDef     `yaml:"writers"`
}

// AggregatorConfig holds the configuration for the streaming aggregation engine.
type AggregatorConfig struct {
	Types               []string     `yaml:"types"`
	NumWorkers          int          `yaml:"num_workers"`
	SizeOfRecordChannel int          `yaml:"size_of_record_channel"`
	Period              string       `yaml:"period"`
	Exact               ExactConfig  `yaml:"exact"`
	Sketch              SketchConfig `yaml:"sketch"`
}

// PersistenceConfig controls spooling of received raw lines to disk.
type PersistenceConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Path              string `yaml:"path"`
	Encoding          string `yaml:"encoding"`
	NumWorkers        int    `yaml:"num_workers"`
	ChannelBufferSize int    `yaml:"channel_buffer_size"`
}

// ProbeConfig holds the configuration for the ingest probe.
type ProbeConfig struct {
	NATSURL     string            `yaml:"nats_url"`
	Subject     string            `yaml:"subject"`
	Iface       string            `yaml:"iface"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// APIConfig holds the configuration for the HTTP query API.
type APIConfig struct {
	ListenAddr string           `yaml:"listen_addr"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// AlerterRule defines a single threshold rule evaluated on task snapshots.
type AlerterRule struct {
	Name      string  `yaml:"name"`
	TaskName  string  `yaml:"task_name"`
	Metric    string  `yaml:"metric"`
	Operator  string  `yaml:"operator"`
	Threshold float64 `yaml:"threshold"`
}

// AlerterConfig holds the configuration for the alerter.
type AlerterConfig struct {
	Enabled       bool          `yaml:"enabled"`
	CheckInterval string        `yaml:"check_interval"`
	Rules         []AlerterRule `yaml:"rules"`
}

// SMTPConfig holds the configuration for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Probe      ProbeConfig      `yaml:"probe"`
	API        APIConfig        `yaml:"api"`
	Alerter    AlerterConfig    `yaml:"alerter"`
	SMTP       SMTPConfig       `yaml:"smtp"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
