package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alane0307/SD-Flood-Relief/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func completedRun(t *testing.T) (*sim.Trajectory, *sim.MetricsSummary) {
	t.Helper()
	s, err := sim.NewSimulator(sim.Scenario1931(), 15, 0.5)
	require.NoError(t, err)
	traj, err := s.Run()
	require.NoError(t, err)
	summary, err := sim.ComputeMetrics(traj, sim.Window{})
	require.NoError(t, err)
	return traj, summary
}

func TestStore_SaveAndListRuns(t *testing.T) {
	st := openTestStore(t)
	traj, summary := completedRun(t)

	id, err := st.SaveRun(traj, summary)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := st.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "1931", runs[0].Scenario)
	assert.InDelta(t, 0.5, runs[0].DT, 1e-12)
	assert.Equal(t, summary.CumDelivered, runs[0].CumDelivered)
}

func TestStore_UndefinedMetricsStoredAsNull(t *testing.T) {
	st := openTestStore(t)
	traj, summary := completedRun(t)
	summary.SE = sim.Undefined()

	id, err := st.SaveRun(traj, summary)
	require.NoError(t, err)

	runs, err := st.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.False(t, runs[0].SE.Valid, "undefined must round-trip as NULL")
}

func TestStore_VillageSeriesRoundTrip(t *testing.T) {
	st := openTestStore(t)
	traj, summary := completedRun(t)

	id, err := st.SaveRun(traj, summary)
	require.NoError(t, err)

	points, err := st.VillageSeries(id)
	require.NoError(t, err)
	require.Len(t, points, traj.Len())
	assert.Equal(t, traj.At(0).States[sim.Village].OutstandingNeed, points[0].OutstandingNeed)
	assert.Equal(t, traj.Final().CumDelivered, points[len(points)-1].CumDelivered)
}

func TestStore_MultipleRunsKeptApart(t *testing.T) {
	st := openTestStore(t)
	traj, summary := completedRun(t)

	a, err := st.SaveRun(traj, summary)
	require.NoError(t, err)
	b, err := st.SaveRun(traj, summary)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	runs, err := st.ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
