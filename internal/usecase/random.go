package usecase

import (
	"math/rand"
	"sync"
)

// LockedRandom is a seeded random source safe for concurrent use
type LockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRandom creates a random source from seed
func NewLockedRandom(seed int64) *LockedRandom {
	return &LockedRandom{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform index in [0, n)
func (r *LockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}
