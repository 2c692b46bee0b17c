// Package priority implements the admission scorer used by the priority
// dispatch algorithm to rank cars waiting at a junction: four attributes
// (queue length ahead, junction segments to cross, wait time, current
// speed) are each passed through an overridable weight function and
// combined by either summation or multiplication.
package priority

import (
	"fmt"

	"github.com/fib-lab/traffic-dispatcher/internal/transform"
)

// WeightFunc maps a raw attribute value to a comparable weight.
type WeightFunc func(x float64) float64

// CombineMode selects how the four weighted attributes are merged into a
// single score.
type CombineMode string

const (
	CombineSum  CombineMode = "sum"
	CombineMult CombineMode = "mult"
)

// capv builds a *float64 literal inline.
func capv(v float64) *float64 { return &v }

// Defaults for the four weight functions:
//   - queue length ahead:   linear(x, k=1)
//   - junction segments:    linear(x, k=3)
//   - wait time:            exponential(x, base=2, k=1, cap=10)
//   - current speed:        logarithmic(x, base=10, k=1)
var (
	DefaultQueueWeight = func(x float64) float64 { return transform.Linear(x, 1, nil) }
	DefaultSegmentWeight = func(x float64) float64 { return transform.Linear(x, 3, nil) }
	DefaultWaitWeight = func(x float64) float64 {
		return transform.Exponential(x, 2, 1, capv(10))
	}
	DefaultSpeedWeight = func(x float64) float64 { return transform.Logarithmic(x, 10, 1) }
)

// Scorer computes admission priority scores for cars waiting at a junction.
// Higher scores are admitted first.
type Scorer struct {
	QueueWeight   WeightFunc
	SegmentWeight WeightFunc
	WaitWeight    WeightFunc
	SpeedWeight   WeightFunc
	Combine       CombineMode
}

// NewScorer returns a Scorer configured with the default weight functions
// and sum combination.
func NewScorer() *Scorer {
	return &Scorer{
		QueueWeight:   DefaultQueueWeight,
		SegmentWeight: DefaultSegmentWeight,
		WaitWeight:    DefaultWaitWeight,
		SpeedWeight:   DefaultSpeedWeight,
		Combine:       CombineSum,
	}
}

// Attributes bundles the four raw inputs to a single score computation.
type Attributes struct {
	QueueLengthAhead float64
	JunctionSegments float64
	WaitTime         float64
	CurrentSpeed     float64
}

// Score computes a's admission priority. Returns an error if the scorer is
// configured with an unknown combine mode; unlike the weight functions,
// which are total, an invalid combine mode must not silently degrade
// scoring.
func (s *Scorer) Score(a Attributes) (float64, error) {
	wq := s.weightFunc(s.QueueWeight, DefaultQueueWeight)(a.QueueLengthAhead)
	ws := s.weightFunc(s.SegmentWeight, DefaultSegmentWeight)(a.JunctionSegments)
	ww := s.weightFunc(s.WaitWeight, DefaultWaitWeight)(a.WaitTime)
	wv := s.weightFunc(s.SpeedWeight, DefaultSpeedWeight)(a.CurrentSpeed)

	switch s.Combine {
	case CombineSum, "":
		return wq + ws + ww + wv, nil
	case CombineMult:
		return wq * ws * ww * wv, nil
	default:
		return 0, fmt.Errorf("priority: unknown combine mode %q", s.Combine)
	}
}

func (s *Scorer) weightFunc(f, fallback WeightFunc) WeightFunc {
	if f != nil {
		return f
	}
	return fallback
}
