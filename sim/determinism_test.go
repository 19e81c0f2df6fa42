package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two runs from the same parameter set must be interchangeable to an
// external calibrator: every stock at every step within 1e-9.
func TestDeterminism_IdenticalRunsIdenticalTrajectories(t *testing.T) {
	run := func() *Trajectory {
		return mustRun(Baseline(), 90, 0.25)
	}
	a, b := run(), run()
	require.Equal(t, a.Len(), b.Len())

	for i := 0; i < a.Len(); i++ {
		for _, tier := range TierOrder {
			sa, sb := &a.At(i).States[tier], &b.At(i).States[tier]
			va, vb := sa.scalarStocks(), sb.scalarStocks()
			for j := range va {
				assert.InDelta(t, va[j], vb[j], 1e-9, "step %d %s.%s", i, tier, stockNames[j])
			}
			for m := range sa.InTransit {
				assert.InDelta(t, sa.InTransit[m], sb.InTransit[m], 1e-9, "step %d %s.in_transit[%d]", i, tier, m)
			}
		}
		assert.InDelta(t, a.At(i).CumDelivered, b.At(i).CumDelivered, 1e-9, "step %d", i)
	}
	assert.Equal(t, a.OnsetStep, b.OnsetStep)
	assert.Equal(t, a.FirstArrivalStep, b.FirstArrivalStep)
}

// Parameters are read-only during a run: simulating must not change them.
func TestDeterminism_RunDoesNotMutateParameters(t *testing.T) {
	p := Scenario1931()
	reference := Scenario1931()
	_ = mustRun(p, 60, 0.5)
	assert.Equal(t, reference, p)
}
