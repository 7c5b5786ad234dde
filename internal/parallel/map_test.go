package parallel

import (
	"sync/atomic"
	"testing"
)

// =============================================================================
// Map Tests
// =============================================================================

func TestMap_PreservesOrder(t *testing.T) {
	for _, workers := range []int{-1, 0, 1, 3, 16} {
		got := Map(100, workers, func(i int) int { return i * i })
		if len(got) != 100 {
			t.Fatalf("workers=%d: len = %d, want 100", workers, len(got))
		}
		for i, v := range got {
			if v != i*i {
				t.Errorf("workers=%d: out[%d] = %d, want %d", workers, i, v, i*i)
				break
			}
		}
	}
}

func TestMap_CallsEachIndexOnce(t *testing.T) {
	var calls atomic.Int64
	seen := make([]atomic.Int32, 257)
	Map(len(seen), 8, func(i int) struct{} {
		calls.Add(1)
		seen[i].Add(1)
		return struct{}{}
	})
	if calls.Load() != int64(len(seen)) {
		t.Errorf("calls = %d, want %d", calls.Load(), len(seen))
	}
	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Errorf("index %d called %d times", i, n)
		}
	}
}

func TestMap_Empty(t *testing.T) {
	got := Map(0, 4, func(int) int {
		t.Error("fn should not be called")
		return 0
	})
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten([][]int{{1, 2}, nil, {3}, {4, 5, 6}})
	want := []int{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
