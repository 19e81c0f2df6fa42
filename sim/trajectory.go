package sim

// Snapshot is the full multi-tier picture after one integration step: every
// tier's stocks, every flow rate that produced them, and the running
// accumulators. Flows are kept so diagnostics (leakage above all) stay
// visible per step instead of having to be re-derived.
type Snapshot struct {
	Step int
	Time float64 // days since the run start

	States [NumTiers]TierState
	Flows  [NumTiers]Flows

	// Evacuation is the share of the Village population that left at the
	// most recent weekly exchange with the evacuation model; zero on steps
	// with no exchange.
	Evacuation float64

	// Accumulators, running totals up to and including this step. Collected
	// funds are converted to mass-equivalent units at ρ/P_food as they come
	// in, so SE compares like with like.
	CumCollected float64
	CumDelivered float64
	CumLeakage   float64
	CumHazard    float64
}

// Trajectory is the durable output of one run: an ordered, append-only
// sequence of snapshots plus run-level facts the metrics engine needs
// (onset, first arrivals, the initial need). It is the sole input to
// ComputeMetrics; nothing else crosses from the simulator to the metrics
// engine. After Run returns, the caller owns it and nothing mutates it.
type Trajectory struct {
	Scenario string
	DT       float64

	Snapshots []Snapshot

	// OnsetStep is the first step at which hazard inflow exceeded the
	// configured threshold, or -1 if it never did.
	OnsetStep int

	// FirstArrivalStep records, per tier, the first step with a positive
	// relief arrival (transport arrival for Province and below, first
	// procurement intake for Central), or -1 if none occurred.
	FirstArrivalStep [NumTiers]int

	// InitialNeed is the summed outstanding need across tiers at t=0,
	// before any hazard accrued. Together with CumHazard it estimates the
	// total need the coverage metrics are measured against.
	InitialNeed float64
}

// newTrajectory allocates a trajectory for the given number of steps.
func newTrajectory(scenario string, dt float64, steps int) *Trajectory {
	t := &Trajectory{
		Scenario:  scenario,
		DT:        dt,
		Snapshots: make([]Snapshot, 0, steps),
		OnsetStep: -1,
	}
	for i := range t.FirstArrivalStep {
		t.FirstArrivalStep[i] = -1
	}
	return t
}

// Len returns the number of recorded steps.
func (t *Trajectory) Len() int { return len(t.Snapshots) }

// At returns the snapshot for the given step.
func (t *Trajectory) At(step int) *Snapshot { return &t.Snapshots[step] }

// Final returns the last snapshot, or nil for an empty trajectory.
func (t *Trajectory) Final() *Snapshot {
	if len(t.Snapshots) == 0 {
		return nil
	}
	return &t.Snapshots[len(t.Snapshots)-1]
}

// DeliveredBetween returns the relief delivered to households (rations plus
// work-relief transfers) between two steps, half-open [from, to).
func (t *Trajectory) DeliveredBetween(from, to int) float64 {
	return t.accumDelta(from, to, func(s *Snapshot) float64 { return s.CumDelivered })
}

// CollectedBetween returns the mass-equivalent relief collected in [from, to).
func (t *Trajectory) CollectedBetween(from, to int) float64 {
	return t.accumDelta(from, to, func(s *Snapshot) float64 { return s.CumCollected })
}

// LeakedBetween returns the relief lost to leakage in [from, to).
func (t *Trajectory) LeakedBetween(from, to int) float64 {
	return t.accumDelta(from, to, func(s *Snapshot) float64 { return s.CumLeakage })
}

func (t *Trajectory) accumDelta(from, to int, get func(*Snapshot) float64) float64 {
	if len(t.Snapshots) == 0 || to <= from {
		return 0
	}
	if to > len(t.Snapshots) {
		to = len(t.Snapshots)
	}
	end := get(&t.Snapshots[to-1])
	start := 0.0
	if from > 0 {
		start = get(&t.Snapshots[from-1])
	}
	return end - start
}

// WeeklyVillageArrival aggregates the Village relief-arrival profile into
// weekly buckets (mass per week), the granularity of the evacuation-model
// exchange. A trailing partial week is included as-is.
func (t *Trajectory) WeeklyVillageArrival() []float64 {
	stepsPerWeek := weeklySteps(t.DT)
	var weeks []float64
	for i, snap := range t.Snapshots {
		if i%stepsPerWeek == 0 {
			weeks = append(weeks, 0)
		}
		weeks[len(weeks)-1] += snap.Flows[County].ArrivalTotal() * t.DT
	}
	return weeks
}

// weeklySteps converts the 7-day exchange cadence into integration steps,
// never fewer than one.
func weeklySteps(dt float64) int {
	n := int(7.0/dt + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}
