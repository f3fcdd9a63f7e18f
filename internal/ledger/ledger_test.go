package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

func testKey() model.InventoryKey {
	return model.InventoryKey{
		TrainNumber: "12001",
		TravelDate:  "2025-07-15",
		Class:       model.ClassAC2,
		Berth:       model.BerthLower,
	}
}

func TestTryDecrementAndSnapshot(t *testing.T) {
	l := New()
	key := testKey()
	l.Open(key, 24, 120000)

	avail, err := l.TryDecrement(key, 3)
	require.NoError(t, err)
	assert.Equal(t, 21, avail)

	rec, err := l.Snapshot(key)
	require.NoError(t, err)
	assert.Equal(t, 24, rec.Total)
	assert.Equal(t, 3, rec.Booked)
	assert.Equal(t, 21, rec.Available())
	assert.Equal(t, uint64(1), rec.Version)
}

func TestTryDecrementInsufficient(t *testing.T) {
	l := New()
	key := testKey()
	l.Open(key, 2, 120000)

	_, err := l.TryDecrement(key, 3)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// counts untouched after a failed decrement
	rec, err := l.Snapshot(key)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Booked)
	assert.Equal(t, uint64(0), rec.Version)
}

func TestUnknownKey(t *testing.T) {
	l := New()
	_, err := l.TryDecrement(testKey(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
	err = l.Increment(testKey(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Snapshot(testKey())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementRestores(t *testing.T) {
	l := New()
	key := testKey()
	l.Open(key, 10, 120000)

	_, err := l.TryDecrement(key, 4)
	require.NoError(t, err)
	require.NoError(t, l.Increment(key, 2))

	rec, _ := l.Snapshot(key)
	assert.Equal(t, 2, rec.Booked)
	assert.Equal(t, 8, rec.Available())
	assert.Equal(t, uint64(2), rec.Version)
}

func TestOpenIsIdempotent(t *testing.T) {
	l := New()
	key := testKey()
	l.Open(key, 10, 120000)
	_, err := l.TryDecrement(key, 5)
	require.NoError(t, err)

	// re-publishing the schedule must not reset live counts
	l.Open(key, 10, 120000)
	rec, _ := l.Snapshot(key)
	assert.Equal(t, 5, rec.Booked)
}

// TestConcurrentDecrementNoOversell hammers a small pool from many
// goroutines: exactly Total decrements may succeed and the invariant
// 0 <= booked <= total must hold throughout.
func TestConcurrentDecrementNoOversell(t *testing.T) {
	l := New()
	key := testKey()
	const total = 24
	const callers = 100
	l.Open(key, total, 120000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.TryDecrement(key, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, total, succeeded)
	rec, _ := l.Snapshot(key)
	assert.Equal(t, total, rec.Booked)
	assert.Equal(t, 0, rec.Available())
	assert.Equal(t, uint64(total), rec.Version)
}
