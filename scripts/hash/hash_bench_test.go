package main

import (
	"fmt"
	"hash/crc32"
	"hash/fnv"
	"math/rand"
	"testing"

	"github.com/mccannj9/SyslogAnalyzer/internal/engine/impl/sketch/statistic"
)

// Shard-picker selection bench: the exact task hashes a hostname per record
// to pick a shard, so the candidates are compared on realistic host keys.

var hostKeys [][]byte

func init() {
	rng := rand.New(rand.NewSource(42))
	hostKeys = make([][]byte, 1024)
	for i := range hostKeys {
		hostKeys[i] = []byte(fmt.Sprintf("host-%c%c-%04d",
			'a'+rng.Intn(26), 'a'+rng.Intn(26), rng.Intn(10000)))
	}
}

func fnv32a(data []byte) uint32 {
	hasher := fnv.New32a()
	hasher.Write(data)
	return hasher.Sum32()
}

func BenchmarkFnv32aHostKeys(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = fnv32a(hostKeys[i%len(hostKeys)])
	}
}

func BenchmarkMurmurHash3HostKeys(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = statistic.MurmurHash3(hostKeys[i%len(hostKeys)], 17371)
	}
}

func BenchmarkCrc32HostKeys(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = crc32.ChecksumIEEE(hostKeys[i%len(hostKeys)])
	}
}

// Collision sanity check across the candidates on the host key corpus.
func TestHashSpread(t *testing.T) {
	const buckets = 256

	spread := func(name string, h func([]byte) uint32) {
		counts := make([]int, buckets)
		for _, key := range hostKeys {
			counts[h(key)%buckets]++
		}
		maxCount := 0
		for _, c := range counts {
			if c > maxCount {
				maxCount = c
			}
		}
		// 1024 keys over 256 buckets averages 4 per bucket; a badly skewed
		// hash lands far above that.
		if maxCount > 16 {
			t.Errorf("%s: worst bucket holds %d of %d keys", name, maxCount, len(hostKeys))
		}
		t.Logf("%s: worst bucket %d", name, maxCount)
	}

	spread("fnv32a", fnv32a)
	spread("murmur3", func(d []byte) uint32 { return statistic.MurmurHash3(d, 17371) })
	spread("crc32", crc32.ChecksumIEEE)
}
