package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	var kl keyLock
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock("like:post-1:2")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyLockReentryAfterUnlock(t *testing.T) {
	var kl keyLock
	for i := 0; i < 3; i++ {
		unlock := kl.Lock("same-key")
		unlock()
	}
}
