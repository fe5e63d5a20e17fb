package services

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyLock serializes operations on the same logical key (e.g. one mark of
// one actor on one post) without a global lock. Keys are hashed onto a fixed
// set of stripes; unrelated keys sharing a stripe only cost contention,
// never correctness.
type keyLock struct {
	stripes [lockStripes]sync.Mutex
}

// Lock acquires the stripe for key and returns the matching unlock func.
func (k *keyLock) Lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &k.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
