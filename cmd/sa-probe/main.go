package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/engine/syslog"
	"github.com/mccannj9/SyslogAnalyzer/internal/probe"
	"github.com/mccannj9/SyslogAnalyzer/internal/probe/persistent"
)

const (
	snapshotLen int32 = 1600
	promiscuous       = true
	timeout           = pcap.BlockForever

	// Syslog over UDP. Only datagrams to this port are captured.
	captureFilter = "udp dst port 514"
)

func main() {
	// --- Command-Line Flag Parsing ---
	configPath := flag.String("config", "configs/config.yaml", "Path to the config file")
	mode := flag.String("mode", "sub", "Operating mode: 'pub' to ingest and publish, 'sub' to subscribe and print.")
	inputPath := flag.String("i", "", "Logfile to publish line by line (pub mode; default stdin unless -live).")
	live := flag.Bool("live", false, "Capture syslog UDP datagrams from the configured interface (pub mode).")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// --- Mode Dispatch ---
	switch *mode {
	case "pub":
		runProbe(cfg, *inputPath, *live)
	case "sub":
		runSubscriber(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Invalid mode: %s\n", *mode)
		flag.Usage()
		os.Exit(1)
	}
}

// runProbe publishes syslog lines to NATS, either replayed from a file or
// stdin, or captured live off the wire.
func runProbe(cfg *config.Config, inputPath string, live bool) {
	pub, err := probe.NewPublisher(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	if live {
		runLiveCapture(cfg, pub)
		return
	}

	var input io.Reader = os.Stdin
	if inputPath != "" {
		file, err := os.Open(inputPath)
		if err != nil {
			log.Fatalf("Failed to open input file: %v", err)
		}
		defer file.Close()
		input = file
		log.Printf("Publishing lines from '%s'...", inputPath)
	} else {
		log.Println("Publishing lines from stdin...")
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	linesPublished := 0
	for scanner.Scan() {
		if err := pub.Publish(scanner.Text()); err != nil {
			log.Printf("Failed to publish line: %v", err)
			continue
		}
		linesPublished++
		if linesPublished%10000 == 0 {
			log.Printf("%d lines published...", linesPublished)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading input: %v", err)
	}
	log.Printf("Finished publishing %d lines.", linesPublished)
}

// runLiveCapture captures UDP/514 datagrams on the configured interface and
// publishes their payloads as raw lines.
func runLiveCapture(cfg *config.Config, pub *probe.Publisher) {
	iface := cfg.Probe.Iface
	if iface == "" {
		log.Fatalf("probe.iface must be set in the config for live capture.")
	}
	log.Printf("Starting sa-probe in LIVE mode on interface: %s", iface)

	handle, err := pcap.OpenLive(iface, snapshotLen, promiscuous, timeout)
	if err != nil {
		log.Fatalf("Error opening device %s: %v", iface, err)
	}
	defer handle.Close()

	if err := handle.SetBPFFilter(captureFilter); err != nil {
		log.Fatalf("Failed to set BPF filter %q: %v", captureFilter, err)
	}

	log.Println("Capture started successfully. Publishing lines to NATS...")

	// Set up a channel to handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start processing packets in a separate goroutine
	go func() {
		packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
		linesPublished := 0
		for packet := range packetSource.Packets() {
			line, err := syslog.ExtractPayload(packet.Data())
			if err != nil {
				continue // Skip non-syslog traffic
			}
			if err := pub.Publish(line); err != nil {
				log.Printf("Failed to publish line: %v", err)
			}
			linesPublished++
			if linesPublished%1000 == 0 {
				log.Printf("%d lines published...", linesPublished)
			}
		}
	}()

	// Wait for a shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}

// runSubscriber subscribes to NATS, prints parsed records, and optionally
// spools raw lines to disk.
func runSubscriber(cfg *config.Config) {
	log.Println("Starting sa-probe in SUBSCRIBER mode...")

	sub, err := probe.NewSubscriber(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	var spool *persistent.Worker
	if cfg.Probe.Persistence.Enabled {
		spool, err = persistent.NewWorker(cfg.Probe.Persistence)
		if err != nil {
			log.Fatalf("Failed to start persistence worker: %v", err)
		}
		defer spool.Stop()
	}

	// Define the handler function for received lines
	handler := func(line string) {
		if spool != nil {
			spool.Enqueue(line)
		}
		rec, err := syslog.ParseLine(line)
		if err != nil {
			log.Printf("Received malformed line: %v", err)
			return
		}
		log.Printf("Received Record: %+v", rec)
	}

	// Start listening for messages
	if err := sub.Start(handler); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	// Set up a channel to handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for a shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}
