package statistic

// Sketch defines the interface for a sketch data structure.
// It supports insertion of host keys, querying per-host line counts, and
// retrieving the estimated heavy hitters.
type Sketch interface {
	Insert(host []byte)
	Query(host []byte) uint32
	HeavyHitters() []HeavyRecord
	Reset()
}

// HeavyRecord is one estimated hot host.
type HeavyRecord struct {
	Host  string
	Count uint32
}
