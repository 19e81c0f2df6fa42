package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinScenarios_Validate(t *testing.T) {
	for _, label := range []string{"baseline", "1931", "1954"} {
		t.Run(label, func(t *testing.T) {
			p, ok := BuiltinScenario(label)
			require.True(t, ok)
			assert.NoError(t, p.Validate())
			assert.Equal(t, label, p.Scenario)
		})
	}
	_, ok := BuiltinScenario("1998")
	assert.False(t, ok)
}

// The structural comparison the model exists for: under identical hazard,
// the 1954 table (faster links, tighter custody, higher ρ and θ) must
// dominate 1931 on structural efficiency and respond no slower.
func TestScenarioComparison_1954Dominates1931(t *testing.T) {
	m31 := runAndMeasure(t, Scenario1931())
	m54 := runAndMeasure(t, Scenario1954())

	require.True(t, m31.SE.Defined)
	require.True(t, m54.SE.Defined)
	assert.GreaterOrEqual(t, m54.SE.Value, m31.SE.Value,
		"1954 SE %.4f must not fall below 1931 SE %.4f", m54.SE.Value, m31.SE.Value)

	require.True(t, m31.MedianResponseTime.Defined)
	require.True(t, m54.MedianResponseTime.Defined)
	assert.LessOrEqual(t, m54.MedianResponseTime.Value, m31.MedianResponseTime.Value,
		"1954 median response %.1f must not exceed 1931's %.1f",
		m54.MedianResponseTime.Value, m31.MedianResponseTime.Value)

	require.True(t, m31.LeakageRatio.Defined)
	require.True(t, m54.LeakageRatio.Defined)
	assert.Less(t, m54.LeakageRatio.Value, m31.LeakageRatio.Value)
}

func runAndMeasure(t *testing.T, p *Parameters) *MetricsSummary {
	t.Helper()
	traj := mustRun(p, 120, 0.25)
	m, err := ComputeMetrics(traj, Window{})
	require.NoError(t, err)
	return m
}

func TestBaseline_ExercisesEverySubsystem(t *testing.T) {
	traj := mustRun(Baseline(), 120, 0.25)
	final := traj.Final()

	assert.Greater(t, final.CumCollected, 0.0, "collection ran")
	assert.Greater(t, final.CumDelivered, 0.0, "relief reached households")
	assert.Greater(t, final.CumLeakage, 0.0, "leakage is visible")
	assert.Greater(t, final.States[County].ActiveProjects, 0.0, "work relief activated")
	assert.Greater(t, final.States[Central].MediaAttention, 0.0)
	assert.Greater(t, final.States[Central].AppealPressure, 0.0)
	assert.Greater(t, final.States[Central].PledgedFunds, 0.0, "pledge ledger in use")

	var workTransfer float64
	for i := 0; i < traj.Len(); i++ {
		workTransfer += traj.At(i).Flows[County].WorkTransfer * traj.DT
	}
	assert.Greater(t, workTransfer, 0.0, "work-relief wages count toward delivery")
}
