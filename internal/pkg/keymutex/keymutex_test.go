package keymutex

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	km := New()

	const workers = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("wallet-1")
			counter++
			km.Unlock("wallet-1")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("counter = %d, want %d", counter, workers)
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	km := New()

	km.Lock("a")
	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()
	<-done
	km.Unlock("a")
}

func TestEntriesAreReleased(t *testing.T) {
	km := New()

	km.Lock("a")
	km.Unlock("a")
	km.Lock("a")
	km.Unlock("a")

	if n := km.Len(); n != 0 {
		t.Errorf("expected no live entries, got %d", n)
	}
}
