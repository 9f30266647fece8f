package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// --- API Query Struct ---
type AggregationRequest struct {
	TaskName string `json:"task_name,omitempty"`
	EndTime  string `json:"end_time,omitempty"`
}

// --- Main Function ---
func main() {
	// Define command-line flags
	mode := flag.String("mode", "api", "Query mode: 'api' to query via HTTP API, 'direct' to query ClickHouse directly.")
	taskName := flag.String("task", "", "The name of the task to query (optional).")
	apiURL := flag.String("url", "http://localhost:8080/api/v1/stats/aggregate", "API endpoint (api mode).")
	chAddr := flag.String("ch", "localhost:9000", "ClickHouse address (direct mode).")

	defaultEnd := time.Now().UTC().Format(time.RFC3339)
	endTimeStr := flag.String("end", defaultEnd, "End time in RFC3339 format (e.g., 2025-09-12T15:10:00Z).")

	flag.Parse()

	log.Printf("Running in '%s' mode.", *mode)

	switch *mode {
	case "api":
		queryViaAPI(*apiURL, *taskName, *endTimeStr)
	case "direct":
		directQueryClickHouse(*chAddr, *taskName, *endTimeStr)
	default:
		log.Fatalf("Invalid mode: %s. Use 'api' or 'direct'.", *mode)
	}
}

// --- API Query Logic ---
func queryViaAPI(apiURL, taskName, endTime string) {
	reqBody := AggregationRequest{
		TaskName: taskName,
		EndTime:  endTime,
	}

	jsonReqBody, err := json.Marshal(reqBody)
	if err != nil {
		log.Fatalf("Error marshalling request body: %v", err)
	}

	log.Printf("Sending request to %s with body:\n%s\n", apiURL, string(jsonReqBody))

	resp, err := http.Post(apiURL, "application/json", bytes.NewBuffer(jsonReqBody))
	if err != nil {
		log.Fatalf("Error sending request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("API returned non-200 status code: %d\nResponse: %s", resp.StatusCode, string(respBody))
	}

	var prettyJSON bytes.Buffer
	err = json.Indent(&prettyJSON, respBody, "", "  ")
	if err != nil {
		log.Printf("Could not prettify JSON, printing raw response:")
		fmt.Println(string(respBody))
		return
	}

	log.Println("---")
	fmt.Println(prettyJSON.String())
}

// --- Direct ClickHouse Query Logic ---
func directQueryClickHouse(chAddr, taskName, endTimeStr string) {
	connOpts := clickhouse.Options{
		Addr: []string{chAddr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: "default",
			Password: "",
		},
	}

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

	endTime, err := time.Parse(time.RFC3339, endTimeStr)
	if err != nil {
		log.Fatalf("Invalid end time format: %v", err)
	}
	whereClauses = append(whereClauses, "Timestamp <= ?")
	args = append(args, endTime)

	if taskName != "" {
		whereClauses = append(whereClauses, "TaskName = ?")
		args = append(args, taskName)
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))

	queryBuilder.WriteString(`
			GROUP BY TaskName, Host
		)
		GROUP BY TaskName
	`)

	conn, err := clickhouse.Open(&connOpts)
	if err != nil {
		log.Fatalf("Error connecting to ClickHouse: %v", err)
	}
	defer conn.Close()

	log.Println("Successfully connected to ClickHouse.")

	rows, err := conn.Query(context.Background(), queryBuilder.String(), args...)
	if err != nil {
		log.Fatalf("Error executing query: %v", err)
	}
	defer rows.Close()

	log.Println("--- Aggregated Query Results (Direct) ---")

	var foundResult bool
	for rows.Next() {
		foundResult = true
		var (
			queriedTaskName string
			alertCount      uint64
			oldestMsg       string
			newestMsg       string
			totalLength     uint64
			lineCount       uint64
			hostCount       uint64
		)

		if err := rows.Scan(&queriedTaskName, &alertCount, &oldestMsg, &newestMsg, &totalLength, &lineCount, &hostCount); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}

		fmt.Printf("TaskName: %s\n", queriedTaskName)
		fmt.Printf("  AlertCount: %d\n", alertCount)
		fmt.Printf("  OldestMsg: %s\n", oldestMsg)
		fmt.Printf("  NewestMsg: %s\n", newestMsg)
		fmt.Printf("  LineCount: %d\n", lineCount)
		fmt.Printf("  HostCount: %d\n", hostCount)
		if lineCount > 0 {
			fmt.Printf("  AvgMsgLength: %.1f\n", float64(totalLength)/float64(lineCount))
		}
		fmt.Println("---------------------")
	}

	if !foundResult {
		log.Println("No data found for the specified criteria.")
	}

	if err := rows.Err(); err != nil {
		log.Printf("An error occurred during row iteration: %v", err)
	}
}
