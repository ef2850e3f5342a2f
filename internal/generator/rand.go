package generator

import (
	"math/rand"
	"sync"
)

// RNG is the uniform random source used for sampling. *rand.Rand satisfies it.
type RNG interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int
}

// NewRand returns a *rand.Rand seeded with seed, or with a random seed when
// seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewSource(rand.Int63()))
	}
	return rand.New(rand.NewSource(seed))
}

// LockedRand serializes draws from an underlying RNG so one source can be
// shared by concurrent HTTP handlers.
type LockedRand struct {
	mu  sync.Mutex
	rng RNG
}

// NewLockedRand wraps rng.
func NewLockedRand(rng RNG) *LockedRand {
	return &LockedRand{rng: rng}
}

// Intn implements RNG.
func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

// shuffle returns a Fisher-Yates shuffled copy of in.
func shuffle[T any](rng RNG, in []T) []T {
	out := append([]T(nil), in...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
