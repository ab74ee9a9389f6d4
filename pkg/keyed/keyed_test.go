package keyed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutex_serializes_per_key(t *testing.T) {
	m := NewMutex()

	const workers = 50
	var counterA, counterB int

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		key, counter := "a", &counterA
		if i%2 == 0 {
			key, counter = "b", &counterB
		}

		wg.Add(1)
		go func(key string, counter *int) {
			defer wg.Done()
			m.Lock(key)
			defer m.Unlock(key)
			*counter++
		}(key, counter)
	}
	wg.Wait()

	assert.Equal(t, 25, counterA)
	assert.Equal(t, 25, counterB)
}

func TestMutex_unlock_without_lock_panics(t *testing.T) {
	m := NewMutex()

	assert.Panics(t, func() {
		m.Unlock("never-locked")
	})
}
