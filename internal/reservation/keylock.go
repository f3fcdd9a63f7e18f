package reservation

import (
	"sync"
	"time"
)

// keyLock hands out one mutual-exclusion slot per inventory scope
// (train/date/class).  Slots are buffered channels of size one so an
// acquire can race a timeout; they are created lazily and never
// removed while the process lives — a parked slot is 96 bytes.
type keyLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[string]chan struct{})}
}

func (k *keyLock) slot(id string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.slots[id]
	if !ok {
		s = make(chan struct{}, 1)
		k.slots[id] = s
	}
	return s
}

// acquire takes the slot for id, waiting at most wait.  It returns
// false when the bound elapses; the caller fails with ErrBusy rather
// than queueing unboundedly.
func (k *keyLock) acquire(id string, wait time.Duration) bool {
	s := k.slot(id)
	select {
	case s <- struct{}{}:
		return true
	case <-time.After(wait):
		return false
	}
}

// release frees the slot for id.  Must pair with a successful acquire.
func (k *keyLock) release(id string) {
	<-k.slot(id)
}
