package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/query"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize querier against the API's ClickHouse instance
	querier, err := query.NewClickHouseQuerier(cfg.API.ClickHouse)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	// Initialize router
	r := mux.NewRouter()

	// Create API handler with querier dependency
	apiHandler := &APIHandler{querier: querier}

	// Define API routes
	r.HandleFunc("/api/v1/stats/aggregate", apiHandler.aggregateHostsHandler).Methods("POST")
	r.HandleFunc("/api/v1/stats/host", apiHandler.hostStatsHandler).Methods("POST")

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// aggregateHostsHandler handles overall aggregation queries.
func (h *APIHandler) aggregateHostsHandler(w http.ResponseWriter, r *http.Request) {
	var req query.AggregationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	resp, err := h.querier.AggregateHosts(r.Context(), &req)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query host stats: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

// hostStatsHandler handles single-host queries.
func (h *APIHandler) hostStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req query.HostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	resp, err := h.querier.HostStats(r.Context(), &req)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query host stats: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
