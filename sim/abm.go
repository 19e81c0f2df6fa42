package sim

import "math"

// EvacuationModel is the weekly coupling contract with the external
// agent-based evacuation model. At each 7-day boundary the simulator hands
// over the Village relief-arrival profile for the week just completed (mass
// per person per week, persons proxied by the Village labor pool) and
// receives back the share of villagers evacuating. That share is removed
// from both outstanding need and the labor pool before the following week's
// first step. No other state crosses this boundary.
type EvacuationModel interface {
	WeeklyEvacuation(week int, reliefPerPerson float64) float64
}

// EvacuationFunc adapts a plain function to the EvacuationModel interface.
type EvacuationFunc func(week int, reliefPerPerson float64) float64

func (f EvacuationFunc) WeeklyEvacuation(week int, reliefPerPerson float64) float64 {
	return f(week, reliefPerPerson)
}

// applyEvacuation runs one weekly exchange: computes the per-person arrival
// profile for the completed week, queries the model, and applies the
// returned share (clamped to [0,1]) to the Village need and labor stocks.
// Returns the applied share for the trajectory record.
func applyEvacuation(model EvacuationModel, states *[NumTiers]TierState, week int, weeklyArrival float64) float64 {
	village := &states[Village]
	perPerson := 0.0
	if village.LaborPool > 0 {
		perPerson = weeklyArrival / village.LaborPool
	}
	share := model.WeeklyEvacuation(week, perPerson)
	share = math.Min(1, math.Max(0, share))
	village.OutstandingNeed *= 1 - share
	village.LaborPool *= 1 - share
	return share
}
