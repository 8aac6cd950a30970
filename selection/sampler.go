package selection

import (
	"math/rand"
	"time"

	"github.com/adaptiq-labs/practice_api/shared"
)

// Sampler draws K unique items from a weighted population without
// replacement: each draw removes the chosen item before the next one.
type Sampler struct {
	rand *rand.Rand
}

// NewSampler creates a sampler. Pass a seeded source for deterministic
// selection in tests; nil falls back to a time-based seed.
func NewSampler(r *rand.Rand) *Sampler {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rand: r}
}

// Sample returns exactly min(k, len(pool)) distinct candidates. When k covers
// the whole pool the input is returned as-is; the fetch layer already
// randomized its order.
func (s *Sampler) Sample(pool []WeightedCandidate, k int) []WeightedCandidate {
	if k >= len(pool) {
		return pool
	}

	remaining := make([]WeightedCandidate, len(pool))
	copy(remaining, pool)

	selected := make([]WeightedCandidate, 0, k)
	for i := 0; i < k && len(remaining) > 0; i++ {
		totalWeight := 0.0
		for _, wc := range remaining {
			totalWeight += clampWeight(wc.Weight)
		}

		r := s.rand.Float64() * totalWeight
		cumulative := 0.0
		idx := len(remaining) - 1
		for j, wc := range remaining {
			cumulative += clampWeight(wc.Weight)
			if cumulative >= r {
				idx = j
				break
			}
		}

		selected = append(selected, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return selected
}

// clampWeight floors every weight so no candidate is locked out of the draw.
// A non-positive weight is a bias against an item, not a hard filter.
func clampWeight(w float64) float64 {
	if w < shared.MinSampleWeight {
		return shared.MinSampleWeight
	}
	return w
}
