package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticTrajectory builds a hand-made trajectory: linear delivery ramp,
// constant collection rate, fixed onset and arrivals. Keeps the metric
// arithmetic testable without running the integrator.
func syntheticTrajectory(steps int, dt, collectRate, deliverRate float64) *Trajectory {
	traj := newTrajectory("synthetic", dt, steps)
	traj.InitialNeed = 1000
	var cumC, cumD float64
	for i := 0; i < steps; i++ {
		cumC += collectRate * dt
		cumD += deliverRate * dt
		traj.Snapshots = append(traj.Snapshots, Snapshot{
			Step:         i,
			Time:         float64(i) * dt,
			CumCollected: cumC,
			CumDelivered: cumD,
		})
	}
	return traj
}

func TestComputeMetrics_SEAndLeakageRatios(t *testing.T) {
	traj := syntheticTrajectory(100, 1, 10, 8)
	traj.Final().CumLeakage = 50
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	require.True(t, m.SE.Defined)
	assert.InDelta(t, 0.8, m.SE.Value, 1e-9)
	require.True(t, m.LeakageRatio.Defined)
	assert.InDelta(t, 50.0/1000.0, m.LeakageRatio.Value, 1e-9)
}

func TestComputeMetrics_WindowedSE(t *testing.T) {
	// Delivery only in the second half: SE over the first 50 days is zero,
	// over the full run 0.4.
	traj := newTrajectory("windowed", 1, 100)
	var cumC, cumD float64
	for i := 0; i < 100; i++ {
		cumC += 10
		if i >= 50 {
			cumD += 8
		}
		traj.Snapshots = append(traj.Snapshots, Snapshot{
			Step: i, Time: float64(i), CumCollected: cumC, CumDelivered: cumD,
		})
	}
	early, err := ComputeMetrics(traj, Window{Start: 0, Length: 50})
	require.NoError(t, err)
	require.True(t, early.SE.Defined)
	assert.InDelta(t, 0.0, early.SE.Value, 1e-9)

	full, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, full.SE.Value, 1e-9)
}

func TestComputeMetrics_ZeroDenominatorsAreUndefined(t *testing.T) {
	// Zero hazard and zero collection: SE, RE, and the leakage ratio must
	// come back undefined, never zero.
	traj := syntheticTrajectory(50, 1, 0, 0)
	traj.InitialNeed = 0
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	assert.False(t, m.SE.Defined)
	assert.False(t, m.RE.Defined)
	assert.False(t, m.LeakageRatio.Defined)
	assert.Equal(t, "undefined", m.SE.String())
}

func TestComputeMetrics_TimeToCoverage(t *testing.T) {
	// Total need = initial 1000 (no hazard); delivery 8/day reaches 25%
	// (250) at t=31.25 → step 32 under integer steps.
	traj := syntheticTrajectory(200, 1, 10, 8)
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	require.True(t, m.TimeToCoverage[0].Defined)
	assert.InDelta(t, 31.0, m.TimeToCoverage[0].Value, 1.0)
	require.True(t, m.TimeToCoverage[1].Defined, "50% reached")
	require.True(t, m.TimeToCoverage[2].Defined, "80% reached")
	assert.Greater(t, m.TimeToCoverage[2].Value, m.TimeToCoverage[1].Value)
}

func TestComputeMetrics_CoverageNotReachedIsUndefined(t *testing.T) {
	traj := syntheticTrajectory(50, 1, 10, 1) // delivers 50 of 1000
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	assert.False(t, m.TimeToCoverage[0].Defined, "25% never reached must not extrapolate")
	assert.False(t, m.TimeToCoverage[2].Defined)
}

func TestComputeMetrics_ResponseTimes(t *testing.T) {
	traj := syntheticTrajectory(100, 0.5, 10, 8)
	traj.OnsetStep = 10
	traj.FirstArrivalStep = [NumTiers]int{12, 20, 30, 44}
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.ResponseTime[Central].Value, 1e-9)
	assert.InDelta(t, 5.0, m.ResponseTime[Province].Value, 1e-9)
	assert.InDelta(t, 10.0, m.ResponseTime[County].Value, 1e-9)
	assert.InDelta(t, 17.0, m.ResponseTime[Village].Value, 1e-9)
	require.True(t, m.MedianResponseTime.Defined)
	assert.InDelta(t, 7.5, m.MedianResponseTime.Value, 2.5, "median of {1,5,10,17}")
}

func TestComputeMetrics_NoOnsetMeansUndefinedResponse(t *testing.T) {
	traj := syntheticTrajectory(50, 1, 10, 8)
	traj.OnsetStep = -1
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	for _, tier := range TierOrder {
		assert.False(t, m.ResponseTime[tier].Defined)
	}
	assert.False(t, m.MedianResponseTime.Defined)
}

func TestComputeMetrics_RejectsBadInput(t *testing.T) {
	_, err := ComputeMetrics(nil, Window{})
	assert.Error(t, err)

	traj := syntheticTrajectory(10, 1, 1, 1)
	_, err = ComputeMetrics(traj, Window{Start: 100})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = ComputeMetrics(traj, Window{Start: -1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
