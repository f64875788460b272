// Samplers for the simulated lifetime assigned to each worker at launch.
// The controller owns a single seeded RNG, so a run is reproducible from
// its seed alone.

package sim

import (
	"math/rand"
)

// DurationSampler draws the simulated lifetime a worker is assigned when it
// is launched. Implementations must be deterministic given the *rand.Rand
// stream they are handed.
type DurationSampler interface {
	Sample(rng *rand.Rand) Time
}

// UniformDurationSampler draws lifetimes of MaxSeconds or less: a whole
// second count uniform in [1, MaxSeconds] plus a sub-second component
// uniform in [0, 1s).
type UniformDurationSampler struct {
	MaxSeconds int
}

// Sample draws one lifetime.
func (s UniformDurationSampler) Sample(rng *rand.Rand) Time {
	return Time{
		Seconds: uint64(rng.Intn(s.MaxSeconds)) + 1,
		Nanos:   uint64(rng.Int63n(int64(NanosPerSecond))),
	}
}

// FixedDurationSampler assigns every worker the same lifetime. Used by tests
// that need a known deadline.
type FixedDurationSampler struct {
	Lifetime Time
}

// Sample returns the fixed lifetime.
func (s FixedDurationSampler) Sample(*rand.Rand) Time {
	return s.Lifetime
}

// SampleLifetimes draws n lifetimes in launch order from a fresh stream
// seeded with seed. The controller draws from an identical stream, so this
// predicts the exact lifetimes a run will assign.
func SampleLifetimes(sampler DurationSampler, seed int64, n int) []Time {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Time, n)
	for i := range out {
		out[i] = sampler.Sample(rng)
	}
	return out
}
