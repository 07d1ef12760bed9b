package simulation

import (
	"math/rand/v2"
	"sync"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

// Allocator hands out consumption patterns so that no pattern repeats before
// every other pattern has been handed out in the current cycle.
type Allocator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	patterns  []domain.Pattern
	remaining []domain.Pattern
}

func NewAllocator(rng *rand.Rand) *Allocator {
	return &Allocator{
		rng:      rng,
		patterns: append([]domain.Pattern(nil), domain.Patterns...),
	}
}

// Assign draws uniformly from the remaining pool and removes the drawn
// pattern, refilling the pool with the full set when it runs dry.
func (a *Allocator) Assign() domain.Pattern {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.remaining) == 0 {
		a.remaining = append(a.remaining[:0], a.patterns...)
	}
	i := a.rng.IntN(len(a.remaining))
	chosen := a.remaining[i]
	a.remaining = append(a.remaining[:i], a.remaining[i+1:]...)
	return chosen
}

// Remaining reports how many patterns are left in the current cycle.
func (a *Allocator) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.remaining)
}
