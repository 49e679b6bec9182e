package calendar

import (
	"reflect"
	"testing"
	"time"
)

func TestGridCache(t *testing.T) {
	t.Run("hit returns memoized grid", func(t *testing.T) {
		cache := NewGridCache(4)
		ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		first := cache.MonthGrid(ref)
		second := cache.MonthGrid(ref.AddDate(0, 0, 5)) // same month, different day
		if !reflect.DeepEqual(first, second) {
			t.Error("same month produced different grids")
		}
		if cache.Len() != 1 {
			t.Errorf("got %d entries, want 1", cache.Len())
		}
	})

	t.Run("evicts oldest at capacity", func(t *testing.T) {
		cache := NewGridCache(2)
		jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		cache.MonthGrid(jan)
		cache.MonthGrid(jan.AddDate(0, 1, 0))
		cache.MonthGrid(jan.AddDate(0, 2, 0))

		if cache.Len() != 2 {
			t.Errorf("got %d entries, want 2", cache.Len())
		}
		// January was evicted; re-requesting it recomputes and evicts again.
		grid := cache.MonthGrid(jan)
		if !reflect.DeepEqual(grid, MonthGrid(jan)) {
			t.Error("recomputed grid differs from direct computation")
		}
	})
}
