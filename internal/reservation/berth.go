package reservation

import (
	"fmt"
	"sync"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// berthPool assigns physical berth numbers within one inventory pool.
// Assignment is deterministic: always the lowest-numbered free berth.
// Pools are only touched under the owning inventory scope, so the
// allocator itself needs no locking beyond the map guard.
type berthPool struct {
	occupied []bool
}

func (p *berthPool) take(n int) []int {
	out := make([]int, 0, n)
	for i := range p.occupied {
		if !p.occupied[i] {
			p.occupied[i] = true
			out = append(out, i)
			if len(out) == n {
				return out
			}
		}
	}
	// caller checked availability under the same scope; short allocation
	// here means the allocator and ledger disagree
	for _, i := range out {
		p.occupied[i] = false
	}
	return nil
}

func (p *berthPool) free(nos []int) {
	for _, i := range nos {
		if i >= 0 && i < len(p.occupied) {
			p.occupied[i] = false
		}
	}
}

// berthAllocator owns the pools for all keys.
type berthAllocator struct {
	mu    sync.Mutex
	pools map[model.InventoryKey]*berthPool
}

func newBerthAllocator() *berthAllocator {
	return &berthAllocator{pools: make(map[model.InventoryKey]*berthPool)}
}

func (a *berthAllocator) pool(key model.InventoryKey, total int) *berthPool {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pools[key]
	if !ok {
		p = &berthPool{occupied: make([]bool, total)}
		a.pools[key] = p
	}
	return p
}

// berthLabel renders a berth number for passengers, e.g. "AC2/lower/07".
func berthLabel(key model.InventoryKey, no int) string {
	return fmt.Sprintf("%s/%s/%02d", key.Class, key.Berth, no+1)
}
