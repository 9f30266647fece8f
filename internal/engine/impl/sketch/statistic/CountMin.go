package statistic

import (
	"math/rand"
	"slices"
)

const (
	defaultWidth     = 1 << 20
	defaultDepth     = 3
	defaultThreshold = 512
)

// Bucket tracks one candidate host fingerprint and its counter.
type Bucket struct {
	FP string
	C  uint32
}

// CountMin is a fingerprinted count-min table over host keys. Each cell
// keeps a majority-vote candidate: collisions decay the resident counter
// and evict the candidate once it reaches zero, so persistent hot hosts
// survive while one-off keys wash out.
type CountMin struct {
	w, d, threshold uint32
	seed            []uint32
	table           [][]Bucket
}

// NewCountMin creates a sketch with the given width, depth and heavy-hitter
// threshold. Zero values fall back to defaults.
func NewCountMin(width, depth, threshold uint32) *CountMin {
	if width == 0 {
		width = defaultWidth
	}
	if depth == 0 {
		depth = defaultDepth
	}
	if threshold == 0 {
		threshold = defaultThreshold
	}

	seed := make([]uint32, depth)
	for i := range seed {
		seed[i] = rand.Uint32()
	}

	table := make([][]Bucket, depth)
	for i := range table {
		table[i] = make([]Bucket, width)
	}

	return &CountMin{
		w:         width,
		d:         depth,
		threshold: threshold,
		seed:      seed,
		table:     table,
	}
}

// Insert counts one line for the given host key.
func (t *CountMin) Insert(host []byte) {
	for i := 0; i < int(t.d); i++ {
		index := MurmurHash3(host, t.seed[i]) % t.w
		bucket := &t.table[i][index]
		if bucket.C == 0 {
			bucket.FP = string(host)
			bucket.C = 1
		} else if bucket.FP == string(host) {
			bucket.C++
		} else {
			bucket.C--
			if bucket.C == 0 {
				bucket.FP = string(host)
				bucket.C = 1
			}
		}
	}
}

// Query estimates the line count for a host key.
func (t *CountMin) Query(host []byte) uint32 {
	sz := uint32(0)
	for i := 0; i < int(t.d); i++ {
		index := MurmurHash3(host, t.seed[i]) % t.w
		if t.table[i][index].FP == string(host) {
			sz = max(sz, t.table[i][index].C)
		}
	}
	return sz
}

// HeavyHitters returns the hosts whose estimated count reaches the
// threshold, sorted by count in descending order.
func (t *CountMin) HeavyHitters() []HeavyRecord {
	hh := make(map[string]uint32)
	for i := 0; i < int(t.d); i++ {
		for j := 0; j < int(t.w); j++ {
			bucket := t.table[i][j]
			if bucket.C > 0 {
				if count, exists := hh[bucket.FP]; exists {
					hh[bucket.FP] = max(count, bucket.C)
				} else {
					hh[bucket.FP] = bucket.C
				}
			}
		}
	}
	heavyHitters := make([]HeavyRecord, 0)
	for k, v := range hh {
		if v < t.threshold {
			continue
		}
		heavyHitters = append(heavyHitters, HeavyRecord{
			Host:  k,
			Count: v,
		})
	}
	// Sort heavy hitters by count in descending order
	slices.SortFunc(heavyHitters, func(a, b HeavyRecord) int {
		return int(b.Count) - int(a.Count)
	})
	return heavyHitters
}

// Reset clears every bucket for a new measurement period.
func (t *CountMin) Reset() {
	for i := range t.table {
		for j := range t.table[i] {
			t.table[i][j] = Bucket{}
		}
	}
}
