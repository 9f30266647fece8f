package alerter

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/config"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// ruleEvaluator is implemented by tasks that can evaluate alert rules
// against their own snapshot. Tasks without it are simply never alerted on.
type ruleEvaluator interface {
	AlerterMsg(rules []config.AlerterRule) string
}

// Alerter is responsible for evaluating task snapshots against predefined rules
// and triggering notifications if rules are violated.
type Alerter struct {
	tasks         []model.Task
	rules         []config.AlerterRule
	notifier      model.Notifier
	checkInterval time.Duration
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

// NewAlerter creates a new Alerter instance.
func NewAlerter(cfg *config.AlerterConfig, tasks []model.Task, notifier model.Notifier) (*Alerter, error) {
	interval, err := time.ParseDuration(cfg.CheckInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid check_interval for alerter: %w", err)
	}

	return &Alerter{
		tasks:         tasks,
		rules:         cfg.Rules,
		notifier:      notifier,
		checkInterval: interval,
		stopChan:      make(chan struct{}),
	}, nil
}

// Start begins the periodic evaluation of alert rules.
func (a *Alerter) Start() {
	log.Println("Alerter started")

	a.wg.Add(1)
	defer a.wg.Done()

	ticker := time.NewTicker(a.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.evaluateAllTasks()
		case <-a.stopChan:
			return
		}
	}
}

// Stop gracefully stops the alerter's evaluation loop.
func (a *Alerter) Stop() {
	log.Println("Stopping Alerter...")
	close(a.stopChan)
	a.wg.Wait()
	a.evaluateAllTasks()
}

// evaluateAllTasks orchestrates the concurrent evaluation of all tasks against the rules.
func (a *Alerter) evaluateAllTasks() {
	var wg sync.WaitGroup
	resultsChan := make(chan string, len(a.tasks)) // Buffered channel

	for _, task := range a.tasks {
		evaluator, ok := task.(ruleEvaluator)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(t model.Task, e ruleEvaluator) {
			defer wg.Done()
			// Find rules relevant to this task
			var relevantRules []config.AlerterRule
			for _, rule := range a.rules {
				if rule.TaskName == t.Name() {
					relevantRules = append(relevantRules, rule)
				}
			}

			// If there are relevant rules, ask the task to evaluate itself
			if len(relevantRules) > 0 {
				if msg := e.AlerterMsg(relevantRules); msg != "" {
					resultsChan <- msg
				}
			}
		}(task, evaluator)
	}

	wg.Wait()
	close(resultsChan)

	// Collect all triggered alert messages
	var allMessages []string
	for msg := range resultsChan {
		allMessages = append(allMessages, msg)
	}

	if len(allMessages) == 0 {
		return // No alerts triggered, do nothing
	}

	log.Printf("Alerter evaluation completed. %d alert(s) triggered.", len(allMessages))

	// Prepare the consolidated notification body
	body := "<h1>SyslogAnalyzer Alert Summary</h1>" +
		"<p>The following alerts were triggered during the last check:</p><hr>" +
		strings.Join(allMessages, "<hr>")

	// Send the final notification
	if a.notifier != nil {
		subject := fmt.Sprintf("SyslogAnalyzer Alert Summary (%d Triggered)", len(allMessages))
		if err := a.notifier.Send(subject, body); err != nil {
			log.Printf("ERROR: Failed to send consolidated alert notification: %v", err)
		} else {
			log.Printf("INFO: Consolidated alert notification sent successfully.")
		}
	}
}
