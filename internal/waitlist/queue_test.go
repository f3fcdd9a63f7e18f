package waitlist

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

func TestEnqueuePositionsStrictlyIncrease(t *testing.T) {
	q := NewQueue()
	now := time.Now()
	for i := 1; i <= 5; i++ {
		pos := q.Enqueue(fmt.Sprintf("bk-%d", i), "p", 1, model.BerthLower, now)
		assert.Equal(t, uint64(i), pos)
	}
	assert.Equal(t, 5, q.Len())
}

func TestDequeueFrontIsFIFO(t *testing.T) {
	q := NewQueue()
	now := time.Now()
	q.Enqueue("a", "p", 1, model.BerthLower, now)
	q.Enqueue("b", "p", 1, model.BerthUpper, now)
	q.Enqueue("c", "p", 2, model.BerthMiddle, now)

	e := q.DequeueFront()
	require.NotNil(t, e)
	assert.Equal(t, "a", e.BookingID)
	assert.Equal(t, uint64(1), e.Position)

	e = q.DequeueFront()
	require.NotNil(t, e)
	assert.Equal(t, "b", e.BookingID)
}

func TestWithdrawSkippedOnDequeue(t *testing.T) {
	q := NewQueue()
	now := time.Now()
	q.Enqueue("a", "p", 1, model.BerthLower, now)
	q.Enqueue("b", "p", 1, model.BerthLower, now)
	q.Enqueue("c", "p", 1, model.BerthLower, now)

	require.True(t, q.Withdraw("a"))
	assert.False(t, q.Withdraw("a"), "second withdraw of the same booking must miss")
	assert.Equal(t, 2, q.Len())

	e := q.DequeueFront()
	require.NotNil(t, e)
	assert.Equal(t, "b", e.BookingID)
	// positions of survivors are untouched
	assert.Equal(t, uint64(2), e.Position)
}

func TestDequeueEmpty(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.DequeueFront())
	q.Enqueue("a", "p", 1, model.BerthLower, time.Now())
	q.DequeueFront()
	assert.Nil(t, q.DequeueFront())
}

func TestRegistrySeparatesQuotas(t *testing.T) {
	r := NewRegistry()
	key := model.InventoryKey{TrainNumber: "12001", TravelDate: "2025-07-15", Class: model.ClassAC2, Berth: model.BerthLower}
	now := time.Now()

	gen := r.For(key, model.QuotaGeneral)
	tat := r.For(key, model.QuotaTatkal)
	require.NotSame(t, gen, tat)

	// each quota queue has its own sequence space
	assert.Equal(t, uint64(1), gen.Enqueue("g1", "p", 1, model.BerthLower, now))
	assert.Equal(t, uint64(1), tat.Enqueue("t1", "p", 1, model.BerthLower, now))

	assert.Equal(t, 1, r.LenFor(key, model.QuotaGeneral))
	assert.Equal(t, 0, r.LenFor(key, model.QuotaPremiumTatkal))
}

func TestConcurrentEnqueueUniquePositions(t *testing.T) {
	q := NewQueue()
	const n = 200
	var wg sync.WaitGroup
	positions := make(chan uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			positions <- q.Enqueue(fmt.Sprintf("bk-%d", i), "p", 1, model.BerthLower, time.Now())
		}(i)
	}
	wg.Wait()
	close(positions)

	seen := make(map[uint64]bool, n)
	for pos := range positions {
		assert.False(t, seen[pos], "position %d assigned twice", pos)
		seen[pos] = true
	}
	assert.Len(t, seen, n)
}
