package recdb

import "github.com/cespare/xxhash/v2"

// hash maps a key to a chain slot in [0, nhash). The original C
// implementation sums key[i]*i over the key bytes; this keeps the same
// shape (hash the key, reduce mod nhash) but uses xxhash for the actual
// mixing, grounded on the teacher's index/index.go, which already hashes
// keys with cespare/xxhash instead of the original's additive checksum.
func (h *Handle) hash(key string) uint64 {
	return xxhash.Sum64String(key) % h.nhash
}

// chainOffset returns the offset of key's chain-head pointer in the
// hash-table region.
func (h *Handle) chainOffset(key string) int64 {
	return hashOff + int64(h.hash(key))*ptrSize
}
