package pool

import (
	"fmt"
	"log"
	"sync"

	"github.com/mccannj9/SyslogAnalyzer/internal/engine/syslog"
	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// defaultQueueCap bounds the batch queue so the producer cannot outrun the
// workers and exhaust memory on very large inputs.
const defaultQueueCap = 32767

// Source yields line batches one at a time. pkg/chunker satisfies it.
type Source interface {
	Next() ([]string, bool)
	Err() error
}

// Pool runs N workers over a bounded batch queue. Each worker owns a private
// ShardResult; no aggregation state is ever shared across workers, so the
// only cross-worker structure is the queue itself. All combination happens
// in Reduce, after every worker has reported.
type Pool struct {
	workers  int
	queueCap int
}

// New creates a pool with the given worker count and queue capacity.
// Non-positive values fall back to defaults. The queue always holds at
// least one termination marker per worker so shutdown cannot block.
func New(workers, queueCap int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueCap <= 0 {
		queueCap = defaultQueueCap
	}
	if queueCap < workers {
		queueCap = workers
	}
	return &Pool{workers: workers, queueCap: queueCap}
}

// Run feeds every batch from src through the pool and reduces the per-shard
// results into one report.
//
// Protocol: the producer enqueues all batches, blocking when the queue is
// full; a drain barrier then waits until every enqueued batch has been
// processed before exactly one nil termination marker per worker goes out.
// A worker that dequeues its marker reports its shard and exits. The
// barrier guarantees no batch is skipped and every worker sees a clean
// shutdown signal.
func (p *Pool) Run(src Source) (*model.Report, error) {
	queue := make(chan []string, p.queueCap)
	results := make(chan *model.ShardResult, p.workers)

	var pending sync.WaitGroup // outstanding batches, the drain barrier

	for i := 0; i < p.workers; i++ {
		go p.worker(queue, &pending, results)
	}

	batches := 0
	for {
		batch, ok := src.Next()
		if !ok {
			break
		}
		pending.Add(1)
		queue <- batch
		batches++
	}

	pending.Wait()
	for i := 0; i < p.workers; i++ {
		queue <- nil
	}

	shards := make([]*model.ShardResult, 0, p.workers)
	for i := 0; i < p.workers; i++ {
		shards = append(shards, <-results)
	}

	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("reading input failed after %d batches: %w", batches, err)
	}

	return Reduce(shards, p.workers)
}

// worker drains the queue into its private shard until the termination
// marker arrives. A parse failure skips the line and is counted, never
// fatal; a panic is recovered into ShardResult.Err so the controller can
// fail the run instead of silently under-counting.
func (p *Pool) worker(queue <-chan []string, pending *sync.WaitGroup, results chan<- *model.ShardResult) {
	shard := model.NewShardResult()
	defer func() {
		if r := recover(); r != nil {
			shard.Err = fmt.Errorf("worker terminated abnormally: %v", r)
		}
		results <- shard
	}()

	for batch := range queue {
		if batch == nil {
			return
		}
		p.processBatch(shard, batch, pending)
	}
}

// processBatch releases its slot on the drain barrier even if a line blows
// up mid-batch, so the producer can never deadlock on a dead worker.
func (p *Pool) processBatch(shard *model.ShardResult, batch []string, pending *sync.WaitGroup) {
	defer pending.Done()
	for _, line := range batch {
		rec, err := syslog.ParseLine(line)
		if err != nil {
			shard.Skipped++
			continue
		}
		shard.Fold(rec)
	}
}

// Reduce merges per-shard results into the final report. Counters sum,
// timestamp bounds widen, and the average is re-derived from the merged
// totals exactly once, never averaged-of-averages. A host absent from a
// shard contributes nothing to that host's merge.
//
// A missing or errored shard fails the whole run: reducing over partial
// shards would corrupt oldest/newest/average without any signal.
func Reduce(shards []*model.ShardResult, expected int) (*model.Report, error) {
	if len(shards) != expected {
		return nil, fmt.Errorf("expected %d shard results, got %d", expected, len(shards))
	}

	report := &model.Report{
		Overall: model.NewStats(),
		PerHost: make(map[string]*model.Stats),
	}

	for i, shard := range shards {
		if shard == nil {
			return nil, fmt.Errorf("shard %d reported no result", i)
		}
		if shard.Err != nil {
			return nil, fmt.Errorf("shard %d failed: %w", i, shard.Err)
		}

		report.Overall.Merge(shard.Overall)
		report.Skipped += shard.Skipped

		for host, stats := range shard.PerHost {
			merged, ok := report.PerHost[host]
			if !ok {
				merged = model.NewStats()
				report.PerHost[host] = merged
			}
			merged.Merge(stats)
		}
	}

	if report.Skipped > 0 {
		log.Printf("Skipped %d malformed lines.", report.Skipped)
	}

	if report.Overall.Count == 0 {
		return nil, model.ErrNoData
	}
	return report, nil
}
