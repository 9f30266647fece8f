package statistic

import "encoding/binary"

// MurmurHash3 is the 32-bit MurmurHash3 finalization over data with the
// given seed. Used to pick sketch buckets; not cryptographic.
func MurmurHash3(data []byte, seed uint32) uint32 {
	const (
		c1 = 0xcc9e2d51
		c2 = 0x1b873593
	)

	h := seed
	length := len(data)
	i := 0

	for ; i+4 <= length; i += 4 {
		k := binary.LittleEndian.Uint32(data[i:])
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	var k uint32
	switch length & 3 {
	case 3:
		k ^= uint32(data[i+2]) << 16
		fallthrough
	case 2:
		k ^= uint32(data[i+1]) << 8
		fallthrough
	case 1:
		k ^= uint32(data[i])
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2
		h ^= k
	}

	h ^= uint32(length)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h
}
