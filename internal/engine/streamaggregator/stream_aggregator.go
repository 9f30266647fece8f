package streamaggregator

import (
	"log"

	"github.com/nats-io/nats.go"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/manager"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/syslog"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// StreamAggregator consumes raw syslog lines from NATS and uses a
// manager.Manager to aggregate them. It implements model.Aggregator.
type StreamAggregator struct {
	nc           *nats.Conn
	sub          *nats.Subscription
	manager      *manager.Manager
	inputChannel chan<- *model.LogRecord
	natsURL      string
	natsSubject  string
}

// NewStreamAggregator creates a new real-time stream aggregator.
func NewStreamAggregator(cfg *config.Config) (*StreamAggregator, error) {
	// The manager will handle the actual aggregation.
	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return nil, err
	}

	return &StreamAggregator{
		manager:      mgr,
		inputChannel: mgr.InputChannel(), // Get the channel from the manager
		natsURL:      cfg.Probe.NATSURL,
		natsSubject:  cfg.Probe.Subject,
	}, nil
}

// Start connects to NATS, starts the underlying manager, and begins processing messages.
func (sa *StreamAggregator) Start() {
	log.Println("StreamAggregator starting for nats: ", sa.natsURL)
	nc, err := nats.Connect(sa.natsURL)
	if err != nil {
		log.Fatalf("StreamAggregator failed to connect to NATS: %v", err)
	}
	sa.nc = nc

	// The manager starts its own worker pool and snapshotter.
	sa.manager.Start()

	sa.sub, err = sa.nc.Subscribe(sa.natsSubject, sa.handleLine)
	if err != nil {
		log.Fatalf("StreamAggregator failed to subscribe: %v", err)
	}
	log.Printf("StreamAggregator subscribed to '%s'", sa.natsSubject)
}

// Stop gracefully shuts down the aggregator.
func (sa *StreamAggregator) Stop() {
	log.Println("StreamAggregator stopping...")
	if sa.sub != nil {
		sa.sub.Unsubscribe()
	}
	if sa.nc != nil {
		sa.nc.Close()
	}
	// Stop the underlying manager, which will close the input channel
	// and wait for workers to finish before taking a final snapshot.
	sa.manager.Stop()
	log.Println("StreamAggregator stopped.")
}

// Input returns the manager's record channel for direct feeding.
func (sa *StreamAggregator) Input() chan<- *model.LogRecord {
	return sa.inputChannel
}

// handleLine parses the raw line and passes it to the manager's channel.
// Malformed lines are dropped with a diagnostic, never fatal.
func (sa *StreamAggregator) handleLine(msg *nats.Msg) {
	rec, err := syslog.ParseLine(string(msg.Data))
	if err != nil {
		log.Printf("Dropping malformed line: %v", err)
		return
	}

	// Pass the record to the manager's channel for concurrent processing.
	sa.inputChannel <- rec
}
