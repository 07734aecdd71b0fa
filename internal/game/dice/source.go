package dice

import (
	"math/rand"
	"time"
)

// Source is the randomness provider for dice rolls.
//
// Implementations are NOT required to be safe for concurrent use. A Source
// serves one logical actor; hosts that roll from multiple goroutines must
// construct one Source per goroutine rather than share one.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// mathSource implements Source over a dedicated math/rand generator.
//
// Invariant: two mathSources built from the same seed produce identical
// draw sequences.
type mathSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a Source backed by a math/rand generator seeded
// with seed. Identical seeds yield identical sequences, which is the basis
// for replayable sessions.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed int64) Source {
	return &mathSource{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSource returns a Source seeded from the wall clock. Suitable when
// no replayable seed has been configured.
func NewTimeSource() Source {
	return NewSeededSource(time.Now().UnixNano())
}

// Intn returns a uniformly distributed int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (m *mathSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return m.rng.Intn(n)
}
