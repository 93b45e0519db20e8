// Package nullpolicy decides, per call, whether a nullable value should come
// out as nil.
package nullpolicy

import (
	"math/rand/v2"

	"github.com/conduit-lang/fixtures/pkg/errors"
)

// DefaultProbability is the chance of emitting nil when nothing else is
// configured.
const DefaultProbability = 0.1

// Decider makes the per-call null decision.
type Decider interface {
	ShouldBeNull(r *rand.Rand) bool
}

// Probability emits nil when a uniform draw in [0, 1) falls below it.
type Probability float64

// NewProbability validates p.
func NewProbability(p float64) (Probability, error) {
	if p < 0 || p > 1 {
		return 0, errors.IllegalArgument("null probability must be within [0, 1], got %v", p)
	}
	return Probability(p), nil
}

// ShouldBeNull draws from r.
func (p Probability) ShouldBeNull(r *rand.Rand) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return r.Float64() < float64(p)
}

// Always emits nil whenever nil is allowed.
var Always Decider = Probability(1)

// Never emits nil.
var Never Decider = Probability(0)

// Func adapts a function to Decider.
type Func func(r *rand.Rand) bool

// ShouldBeNull calls f.
func (f Func) ShouldBeNull(r *rand.Rand) bool {
	return f(r)
}
