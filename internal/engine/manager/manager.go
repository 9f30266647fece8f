package manager

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/alerter"
	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	_ "github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/exact"  // Registers exact task aggregator
	_ "github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/sketch" // Registers sketch task aggregator
	"github.com/mccannj9/SyslogAnalyzer/internal/factory"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
	"github.com/mccannj9/SyslogAnalyzer/internal/notification"
)

// Manager orchestrates a set of aggregation tasks and their writers.
type Manager struct {
	taskGroups []factory.TaskGroup
	alerter    *alerter.Alerter

	// Worker pool for concurrent record processing
	recordChannel chan *model.LogRecord
	numWorkers    int
	workerWg      sync.WaitGroup

	// Snapshotting and Resetting resources
	period        time.Duration // Global measurement period
	done          chan struct{}
	snapshotterWg sync.WaitGroup
	resetterWg    sync.WaitGroup
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	taskGroups, err := factory.Create(cfg)
	if err != nil {
		return nil, err
	}

	period, err := time.ParseDuration(cfg.Aggregator.Period)
	if err != nil {
		return nil, fmt.Errorf("invalid aggregator period: %w", err)
	}
	if period <= 0 {
		return nil, fmt.Errorf("aggregator period must be a positive duration")
	}

	numWorkers := cfg.Aggregator.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	var alertr *alerter.Alerter
	if cfg.Alerter.Enabled {
		var allTasks []model.Task
		for _, group := range taskGroups {
			allTasks = append(allTasks, group.Tasks...)
		}

		// For now, we only initialize the email notifier. This can be expanded later.
		var notifier model.Notifier
		if cfg.SMTP.Host != "" { // Simple check to see if email is configured
			notifier = notification.NewEmailNotifier(cfg.SMTP)
		}

		if notifier != nil {
			var err error
			alertr, err = alerter.NewAlerter(&cfg.Alerter, allTasks, notifier)
			if err != nil {
				return nil, fmt.Errorf("failed to create alerter: %w", err)
			}
			log.Println("Alerter enabled and initialized.")
		} else {
			log.Println("Alerter is enabled in config, but no notifiers are configured. Alerter will not run.")
		}
	}

	return &Manager{
		taskGroups:    taskGroups,
		alerter:       alertr,
		period:        period,
		done:          make(chan struct{}),
		recordChannel: make(chan *model.LogRecord, cfg.Aggregator.SizeOfRecordChannel),
		numWorkers:    numWorkers,
	}, nil
}

// Start begins the manager's record processing workers, snapshotter, and resetter goroutines.
func (m *Manager) Start() {
	// For each group, start a dedicated snapshotter for each of its writers.
	for _, group := range m.taskGroups {
		for _, writer := range group.Writers {
			m.snapshotterWg.Add(1)
			// Pass the group-specific tasks to the snapshotter
			go m.runSnapshotter(writer, group.Tasks)
			log.Printf("Started snapshotter for a writer with interval %s, handling %d tasks.", writer.GetInterval(), len(group.Tasks))
		}
	}

	// Start the global resetter for all tasks across all groups.
	m.resetterWg.Add(1)
	go m.runResetter()
	log.Printf("Started global resetter with period %s", m.period)

	// Start the independent alerter goroutine if it's enabled.
	if m.alerter != nil {
		go m.alerter.Start()
	}

	// Start the record processing worker pool.
	m.workerWg.Add(m.numWorkers)
	for i := 0; i < m.numWorkers; i++ {
		go m.worker()
	}
	log.Printf("Manager started with %d workers.", m.numWorkers)
}

// runSnapshotter runs a dedicated snapshot loop for a single writer and its associated tasks.
func (m *Manager) runSnapshotter(writer model.Writer, tasks []model.Task) {
	defer m.snapshotterWg.Done()
	interval := writer.GetInterval()
	if interval <= 0 {
		log.Printf("Invalid interval %s for writer, snapshotter will not run.", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.takeSnapshotForWriter(writer, tasks)
		case <-m.done:
			m.takeSnapshotForWriter(writer, tasks)
			return
		}
	}
}

// takeSnapshotForWriter orchestrates taking and writing a snapshot for a specific writer.
func (m *Manager) takeSnapshotForWriter(writer model.Writer, tasks []model.Task) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	log.Printf("Taking snapshot for writer at %s for %d tasks.", timestamp, len(tasks))

	var wg sync.WaitGroup
	wg.Add(len(tasks)) // Wait for all tasks in this group to finish snapshotting

	for _, task := range tasks {
		go func(t model.Task) {
			defer wg.Done()
			snapshotData := t.Snapshot()
			if err := writer.Write(snapshotData, timestamp); err != nil {
				log.Printf("Error writing snapshot for task %s: %v", t.Name(), err)
			}
		}(task)
	}

	wg.Wait() // Wait for all tasks in this group to complete

	log.Printf("Completed snapshot for writer at %s.", time.Now().Format("2006-01-02_15-04-05"))
}

// runResetter runs a dedicated loop to reset all tasks periodically.
func (m *Manager) runResetter() {
	defer m.resetterWg.Done()
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.resetAllTasks()
		case <-m.done:
			log.Println("Resetter shutting down.")
			return
		}
	}
}

// resetAllTasks iterates through all tasks across all groups and calls their Reset method.
func (m *Manager) resetAllTasks() {
	log.Printf("Resetting all tasks for new measurement period at %s", time.Now().Format("2006-01-02_15-04-05"))
	var wg sync.WaitGroup
	for _, group := range m.taskGroups {
		wg.Add(len(group.Tasks))
		for _, task := range group.Tasks {
			go func(t model.Task) {
				defer wg.Done()
				t.Reset()
			}(task)
		}
	}
	wg.Wait() // Wait for all tasks to complete
	log.Println("All tasks have been reset at ", time.Now().Format("2006-01-02_15-04-05"))
}

// Stop gracefully shuts down the manager.
func (m *Manager) Stop() {
	log.Println("Manager stopping...")
	// 1. Stop accepting new records.
	close(m.recordChannel)

	// 2. Wait for all workers to finish processing buffered records.
	log.Println("Waiting for workers to finish...")
	m.workerWg.Wait()

	// 3. Signal snapshotters and resetter to take final actions and exit.
	close(m.done)
	log.Println("Waiting for snapshotters and resetter to finish...")

	// 4. Wait for all goroutines to complete.
	m.snapshotterWg.Wait()
	m.resetterWg.Wait()

	// 5. Stop the alerter if it's running.
	if m.alerter != nil {
		m.alerter.Stop()
	}

	log.Println("Manager stopped.")
}

func (m *Manager) worker() {
	defer m.workerWg.Done()
	for rec := range m.recordChannel {
		// Fan out the record to all tasks in all groups
		for _, group := range m.taskGroups {
			for _, task := range group.Tasks {
				task.ProcessRecord(rec)
			}
		}
	}
}

func (m *Manager) InputChannel() chan<- *model.LogRecord {
	return m.recordChannel
}
