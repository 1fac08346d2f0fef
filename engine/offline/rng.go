package offline

import "math/rand"

// RNG is a seeded source whose position counts every draw, so a world
// can be rebuilt at the same point in its random sequence. Each draw
// consumes exactly one value from the source.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a value in [1, sides]. Sides below 1 count as 1.
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		sides = 1
	}
	return r.next(sides) + 1
}

// Chance reports whether a percentage roll succeeds.
func (r *RNG) Chance(percent int) bool {
	return r.Roll(100) <= percent
}

// WeightedSelect picks an index with probability proportional to its
// weight. An empty or all-zero table selects index 0.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := r.next(total)
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func (r *RNG) next(n int) int {
	r.pos++
	return int(r.src.Int63() % int64(n))
}

func (r *RNG) Seed() int64     { return r.seed }
func (r *RNG) Position() int64 { return r.pos }

// RestoreRNG rebuilds the generator for seed and skips ahead to position.
func RestoreRNG(seed, position int64) *RNG {
	r := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
