package model

import "time"

// Implied-year bounds. All timestamps in one run are assumed to fall within
// a single calendar year, so records parse into year zero and fresh scopes
// start with Oldest at the end of that year and Newest at its start. The
// first real record therefore wins both comparisons.
var (
	sentinelOldest = time.Date(0, time.December, 31, 23, 59, 59, 0, time.UTC)
	sentinelNewest = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// LogRecord holds the fields extracted from a single RFC3164 syslog line.
type LogRecord struct {
	Host      string
	Timestamp time.Time
	Emergency bool // severity 0 or 1 in the low 3 bits of the priority
	Length    int  // byte count of the free-text message portion
}

// Stats is a running statistics accumulator for one scope: overall, or a
// single host. Instances are sentinel-initialized, mutated in place by
// Update within exactly one owning worker, and combined across shards with
// Merge once every worker has reported.
type Stats struct {
	Alerts      uint64
	Oldest      time.Time
	Newest      time.Time
	TotalLength uint64
	Count       uint64
}

// NewStats returns a Stats with sentinel timestamps, ready for Update.
func NewStats() *Stats {
	return &Stats{
		Oldest: sentinelOldest,
		Newest: sentinelNewest,
	}
}

// Update folds one record into the scope.
// Both timestamp comparisons run independently: a single record for a fresh
// scope must become the oldest and the newest message at the same time.
func (s *Stats) Update(rec *LogRecord) {
	if rec.Emergency {
		s.Alerts++
	}
	if rec.Timestamp.Before(s.Oldest) {
		s.Oldest = rec.Timestamp
	}
	if rec.Timestamp.After(s.Newest) {
		s.Newest = rec.Timestamp
	}
	s.TotalLength += uint64(rec.Length)
	s.Count++
}

// Merge folds another scope into this one: counters add up and the
// timestamp bounds widen. Merging an untouched scope is a no-op thanks to
// the sentinel initialization, so empty shards never distort the result.
func (s *Stats) Merge(other *Stats) {
	s.Alerts += other.Alerts
	if other.Oldest.Before(s.Oldest) {
		s.Oldest = other.Oldest
	}
	if other.Newest.After(s.Newest) {
		s.Newest = other.Newest
	}
	s.TotalLength += other.TotalLength
	s.Count += other.Count
}

// AverageLength returns TotalLength/Count. It is derived from the merged
// totals, never averaged across shards, so unequal shard sizes cannot bias
// it. Count must be at least 1.
func (s *Stats) AverageLength() float64 {
	return float64(s.TotalLength) / float64(s.Count)
}

// ShardResult is the unit of output from one worker: its private overall
// scope plus its per-host scopes. Ownership transfers entirely to the
// reducer when the worker reports; nothing touches a ShardResult
// concurrently after that.
type ShardResult struct {
	Overall *Stats
	PerHost map[string]*Stats
	Skipped uint64 // lines that failed to parse
	Err     error  // set when the worker terminated abnormally
}

// NewShardResult returns an empty shard with sentinel-initialized overall
// state. Host scopes are created lazily on first sight of each host.
func NewShardResult() *ShardResult {
	return &ShardResult{
		Overall: NewStats(),
		PerHost: make(map[string]*Stats),
	}
}

// Fold parses nothing itself; it applies an already-parsed record to the
// shard's overall scope and to the record's host scope, creating the host
// scope on first sight.
func (r *ShardResult) Fold(rec *LogRecord) {
	r.Overall.Update(rec)
	hs, ok := r.PerHost[rec.Host]
	if !ok {
		hs = NewStats()
		r.PerHost[rec.Host] = hs
	}
	hs.Update(rec)
}
