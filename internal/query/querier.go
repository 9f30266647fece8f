package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
)

// AggregationRequest selects which task (and optionally which snapshot
// horizon) to aggregate over.
type AggregationRequest struct {
	TaskName string     `json:"task_name,omitempty"`
	EndTime  *time.Time `json:"end_time,omitempty"`
}

// HostRequest asks for the statistics of a single host.
type HostRequest struct {
	TaskName string     `json:"task_name"`
	Host     string     `json:"host"`
	EndTime  *time.Time `json:"end_time,omitempty"`
}

// TaskSummary is the merged overall scope for one task, derived from the
// latest snapshot of every host.
type TaskSummary struct {
	TaskName     string  `json:"task_name"`
	AlertCount   uint64  `json:"alert_count"`
	OldestMsg    string  `json:"oldest_msg"`
	NewestMsg    string  `json:"newest_msg"`
	TotalLength  uint64  `json:"total_length"`
	LineCount    uint64  `json:"line_count"`
	HostCount    uint64  `json:"host_count"`
	AvgMsgLength float64 `json:"avg_msg_length"`
}

// AggregationResponse carries one summary per matched task.
type AggregationResponse struct {
	Summaries []*TaskSummary `json:"summaries"`
}

// HostStats is the latest known scope of one host.
type HostStats struct {
	TaskName     string  `json:"task_name"`
	Host         string  `json:"host"`
	AlertCount   uint64  `json:"alert_count"`
	OldestMsg    string  `json:"oldest_msg"`
	NewestMsg    string  `json:"newest_msg"`
	TotalLength  uint64  `json:"total_length"`
	LineCount    uint64  `json:"line_count"`
	AvgMsgLength float64 `json:"avg_msg_length"`
}

// Querier defines the interface for querying aggregated host statistics.
type Querier interface {
	AggregateHosts(ctx context.Context, req *AggregationRequest) (*AggregationResponse, error)
	HostStats(ctx context.Context, req *HostRequest) (*HostStats, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
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

// AggregateHosts merges the latest snapshot of every host into per-task
// overall statistics. min/max over the MM/DD HH:MM:SS strings is
// chronologically correct under the implied-year assumption, and the
// average is derived from the summed totals, never averaged per host.
func (q *clickhouseQuerier) AggregateHosts(ctx context.Context, req *AggregationRequest) (*AggregationResponse, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			TaskName,
			SUM(LatestAlertCount) AS AlertCount,
			min(LatestOldestMsg) AS OldestMsg,
			max(LatestNewestMsg) AS NewestMsg,
			SUM(LatestTotalLength) AS TotalLength,
			SUM(LatestLineCount) AS LineCount,
			COUNT(*) AS HostCount
		FROM (
			SELECT
				TaskName,
				argMax(AlertCount, Timestamp) AS LatestAlertCount,
				argMax(OldestMsg, Timestamp) AS LatestOldestMsg,
				argMax(NewestMsg, Timestamp) AS LatestNewestMsg,
				argMax(TotalLength, Timestamp) AS LatestTotalLength,
				argMax(LineCount, Timestamp) AS LatestLineCount
			FROM host_stats
	`)

	var whereClauses []string
	args := []interface{}{}

	if req.EndTime != nil {
		whereClauses = append(whereClauses, "Timestamp <= ?")
		args = append(args, *req.EndTime)
	}
	if req.TaskName != "" {
		whereClauses = append(whereClauses, "TaskName = ?")
		args = append(args, req.TaskName)
	}

	if len(whereClauses) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))
	}

	queryBuilder.WriteString(`
			GROUP BY TaskName, Host
		)
		GROUP BY TaskName
	`)

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var summaries []*TaskSummary
	for rows.Next() {
		var summary TaskSummary
		if err := rows.Scan(&summary.TaskName, &summary.AlertCount, &summary.OldestMsg, &summary.NewestMsg,
			&summary.TotalLength, &summary.LineCount, &summary.HostCount); err != nil {
			return nil, fmt.Errorf("failed to scan aggregation result: %w", err)
		}
		if summary.LineCount > 0 {
			summary.AvgMsgLength = float64(summary.TotalLength) / float64(summary.LineCount)
		}
		summaries = append(summaries, &summary)
	}

	return &AggregationResponse{Summaries: summaries}, nil
}

// HostStats returns the latest known statistics for a single host.
func (q *clickhouseQuerier) HostStats(ctx context.Context, req *HostRequest) (*HostStats, error) {
	if req.TaskName == "" || req.Host == "" {
		return nil, fmt.Errorf("task_name and host are required")
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			argMax(AlertCount, Timestamp) AS AlertCount,
			argMax(OldestMsg, Timestamp) AS OldestMsg,
			argMax(NewestMsg, Timestamp) AS NewestMsg,
			argMax(TotalLength, Timestamp) AS TotalLength,
			argMax(LineCount, Timestamp) AS LineCount
		FROM host_stats
		WHERE TaskName = ? AND Host = ?
	`)

	args := []interface{}{req.TaskName, req.Host}
	if req.EndTime != nil {
		queryBuilder.WriteString(" AND Timestamp <= ?")
		args = append(args, *req.EndTime)
	}

	result := &HostStats{TaskName: req.TaskName, Host: req.Host}

	row := q.conn.QueryRow(ctx, queryBuilder.String(), args...)
	if err := row.Scan(&result.AlertCount, &result.OldestMsg, &result.NewestMsg,
		&result.TotalLength, &result.LineCount); err != nil {
		return nil, fmt.Errorf("failed to scan host stats result: %w", err)
	}
	if result.LineCount > 0 {
		result.AvgMsgLength = float64(result.TotalLength) / float64(result.LineCount)
	}

	return result, nil
}
