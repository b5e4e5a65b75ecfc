package auth

import (
	"sync"
	"testing"
)

// StorageMode races against the availability check when called from
// multiple goroutines; every call must still return a consistent answer.
func TestStorageModeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = StorageMode()
		}(i)
	}
	wg.Wait()

	want := StorageMode()
	if want == "" {
		t.Fatal("StorageMode returned empty")
	}
	for i, got := range results {
		if got != want {
			t.Errorf("call %d returned %q, want %q", i, got, want)
		}
	}
}
