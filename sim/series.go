package sim

import (
	"fmt"
	"math"
)

// Series is an exogenous input sampled once per integration step (hazard
// inflow, food price, news volume). Values are keyed by step index; the
// simulator never interpolates. A series either covers the whole horizon or
// carries HoldLast, which extends it by holding the final sample.
type Series struct {
	Name     string
	Values   []float64
	HoldLast bool // extrapolate past the last sample by holding it
}

// NewSeries wraps explicit per-step samples. The series must cover the
// horizon it is used with unless HoldLast is set afterwards.
func NewSeries(name string, values []float64) Series {
	return Series{Name: name, Values: values}
}

// ConstantSeries is a single held sample, valid over any horizon.
func ConstantSeries(name string, value float64) Series {
	return Series{Name: name, Values: []float64{value}, HoldLast: true}
}

// Len returns the number of explicit samples.
func (s Series) Len() int { return len(s.Values) }

// At returns the sample for the given step. Steps beyond the explicit range
// return the held last value; coverage for non-HoldLast series is enforced
// up front by CheckCoverage, so At stays total.
func (s Series) At(step int) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	if step < 0 {
		return s.Values[0]
	}
	if step >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	return s.Values[step]
}

// CheckCoverage verifies the series is usable for a run of the given number
// of steps: non-empty, finite, and either long enough or marked HoldLast.
func (s Series) CheckCoverage(steps int) error {
	if len(s.Values) == 0 {
		return fmt.Errorf("%w: series %q is empty", ErrMissingExogenousData, s.Name)
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: series %q sample %d is not finite", ErrInvalidParameter, s.Name, i)
		}
	}
	if !s.HoldLast && len(s.Values) < steps {
		return fmt.Errorf("%w: series %q has %d samples, horizon needs %d (set HoldLast to extrapolate)",
			ErrMissingExogenousData, s.Name, len(s.Values), steps)
	}
	return nil
}

// Min returns the smallest explicit sample, or 0 for an empty series.
func (s Series) Min() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
