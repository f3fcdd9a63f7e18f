// Package ledger holds the committed seat counts for every inventory
// pool.  Writers mutate records one at a time under the ledger lock;
// readers get copy-on-write snapshots, so a snapshot only ever shows a
// fully committed state, never a half-applied decrement.
package ledger

import (
	"errors"
	"sync"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// ErrNotFound is returned when no record exists for a key.  Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("inventory record not found")

// ErrInsufficientInventory is returned when a decrement asks for more
// seats than are available.  The coordinator converts it into a
// waitlist outcome; it is never surfaced raw to callers.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// Ledger maps inventory keys to their records.  Records stored in the
// map are treated as immutable: every mutation installs a fresh copy
// with a bumped version, which is what makes lock-free reads safe.
type Ledger struct {
	mu      sync.RWMutex
	records map[model.InventoryKey]*model.InventoryRecord
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{records: make(map[model.InventoryKey]*model.InventoryRecord)}
}

// Open creates the record for a key with the given capacity and base
// fare.  Opening an already-open key is a no-op so a schedule can be
// re-published safely without resetting live counts.
func (l *Ledger) Open(key model.InventoryKey, total int, baseFarePaise int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[key]; ok {
		return
	}
	l.records[key] = &model.InventoryRecord{
		Key:           key,
		Total:         total,
		BaseFarePaise: baseFarePaise,
	}
}

// OpenTrain opens every (class, berth) pool of a train for one travel
// date, using the catalog layout for capacities and base fares.
func (l *Ledger) OpenTrain(t model.Train, travelDate string) {
	for class, layout := range t.Layouts {
		for berth, seats := range layout.SeatsPerBerth {
			l.Open(model.InventoryKey{
				TrainNumber: t.Number,
				TravelDate:  travelDate,
				Class:       class,
				Berth:       berth,
			}, seats, layout.BaseFarePaise)
		}
	}
}

// TryDecrement books count seats iff that many are available.  On
// success it returns the new available count.  Fails with
// ErrInsufficientInventory when the pool is too empty and ErrNotFound
// for unknown keys.
func (l *Ledger) TryDecrement(key model.InventoryKey, count int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[key]
	if !ok {
		return 0, ErrNotFound
	}
	if rec.Available() < count {
		return 0, ErrInsufficientInventory
	}
	next := *rec
	next.Booked += count
	next.Version++
	l.records[key] = &next
	return next.Available(), nil
}

// Increment releases count previously booked seats (cancellation).
// The booked counter never goes below zero.
func (l *Ledger) Increment(key model.InventoryKey, count int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[key]
	if !ok {
		return ErrNotFound
	}
	next := *rec
	next.Booked -= count
	if next.Booked < 0 {
		next.Booked = 0
	}
	next.Version++
	l.records[key] = &next
	return nil
}

// Snapshot returns a copy of the committed record for key.  The copy
// is safe to read without further locking.
func (l *Ledger) Snapshot(key model.InventoryKey) (model.InventoryRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.records[key]
	if !ok {
		return model.InventoryRecord{}, ErrNotFound
	}
	return *rec, nil
}

// Has reports whether a record exists for key.
func (l *Ledger) Has(key model.InventoryKey) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.records[key]
	return ok
}
