package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MetricValue is a metric that may be undefined. A zero denominator over the
// requested window leaves Defined false; callers must treat that as "not yet
// meaningful", never as zero or infinity.
type MetricValue struct {
	Value   float64
	Defined bool
}

// Defined wraps a plain value.
func Defined(v float64) MetricValue { return MetricValue{Value: v, Defined: true} }

// Undefined is the explicit zero-denominator / not-reached sentinel.
func Undefined() MetricValue { return MetricValue{} }

func (m MetricValue) String() string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", m.Value)
}

// Window selects the [Start, Start+Length) span of a trajectory, in days.
// A non-positive Length means "to the end of the run".
type Window struct {
	Start  float64
	Length float64
}

// coverageFractions are the coverage thresholds reported by the metrics
// engine, as fractions of estimated total need.
var coverageFractions = [3]float64{0.25, 0.50, 0.80}

// MetricsSummary is the comparative readout of one completed run.
type MetricsSummary struct {
	Scenario string
	Window   Window

	// SE is structural efficiency: relief delivered to households over
	// relief collected, both mass-equivalent, within the window.
	SE MetricValue
	// RE is relief efficiency: delivered over cumulative hazard inflow,
	// full horizon.
	RE MetricValue
	// LeakageRatio is cumulative leakage over cumulative collected.
	LeakageRatio MetricValue

	// TimeToCoverage holds the first time (days) at which cumulative
	// delivered relief reached 25/50/80% of estimated total need;
	// undefined means not reached within the horizon.
	TimeToCoverage [3]MetricValue

	// ResponseTime is, per tier, the days between flood onset and the
	// first nonzero relief arrival at that tier; undefined when onset
	// never occurred or nothing arrived.
	ResponseTime       [NumTiers]MetricValue
	MedianResponseTime MetricValue

	// Raw totals over the full horizon, for downstream reporting.
	CumCollected   float64
	CumDelivered   float64
	CumLeakage     float64
	CumHazard      float64
	FinalUnmetNeed float64
}

// ComputeMetrics post-processes a completed trajectory into the comparative
// metrics. It never invents numbers for degenerate windows: any metric whose
// denominator is zero comes back as the undefined sentinel.
func ComputeMetrics(traj *Trajectory, window Window) (*MetricsSummary, error) {
	if traj == nil || traj.Len() == 0 {
		return nil, fmt.Errorf("%w: empty trajectory", ErrInvalidParameter)
	}
	from, to, err := window.steps(traj)
	if err != nil {
		return nil, err
	}

	m := &MetricsSummary{Scenario: traj.Scenario, Window: window}
	final := traj.Final()
	m.CumCollected = final.CumCollected
	m.CumDelivered = final.CumDelivered
	m.CumLeakage = final.CumLeakage
	m.CumHazard = final.CumHazard
	for _, tier := range TierOrder {
		m.FinalUnmetNeed += final.States[tier].OutstandingNeed
	}

	m.SE = ratio(traj.DeliveredBetween(from, to), traj.CollectedBetween(from, to))
	m.RE = ratio(final.CumDelivered, final.CumHazard)
	m.LeakageRatio = ratio(final.CumLeakage, final.CumCollected)

	totalNeed := traj.InitialNeed + final.CumHazard
	for i, frac := range coverageFractions {
		m.TimeToCoverage[i] = timeToCoverage(traj, frac*totalNeed)
	}

	m.ResponseTime, m.MedianResponseTime = responseTimes(traj)
	return m, nil
}

// ratio builds a MetricValue, keeping the zero-denominator case explicit.
func ratio(num, den float64) MetricValue {
	if den == 0 {
		return Undefined()
	}
	return Defined(num / den)
}

// timeToCoverage finds the first step at which cumulative delivered relief
// reached the target, as a time in days. Never extrapolates past the run.
func timeToCoverage(traj *Trajectory, target float64) MetricValue {
	if target <= 0 {
		return Undefined()
	}
	for i := range traj.Snapshots {
		if traj.Snapshots[i].CumDelivered >= target {
			return Defined(traj.Snapshots[i].Time)
		}
	}
	return Undefined()
}

// responseTimes converts the recorded first-arrival steps into lags from
// flood onset, plus their median across the tiers that ever saw an arrival.
func responseTimes(traj *Trajectory) ([NumTiers]MetricValue, MetricValue) {
	var per [NumTiers]MetricValue
	if traj.OnsetStep < 0 {
		return per, Undefined()
	}
	var defined []float64
	for _, tier := range TierOrder {
		first := traj.FirstArrivalStep[tier]
		if first < 0 {
			continue
		}
		lag := float64(first-traj.OnsetStep) * traj.DT
		if lag < 0 {
			lag = 0
		}
		per[tier] = Defined(lag)
		defined = append(defined, lag)
	}
	if len(defined) == 0 {
		return per, Undefined()
	}
	sort.Float64s(defined)
	return per, Defined(stat.Quantile(0.5, stat.Empirical, defined, nil))
}

// steps maps the window from days onto snapshot indices.
func (w Window) steps(traj *Trajectory) (from, to int, err error) {
	if w.Start < 0 || math.IsNaN(w.Start) {
		return 0, 0, fmt.Errorf("%w: window start must be non-negative, got %v", ErrInvalidParameter, w.Start)
	}
	from = int(w.Start / traj.DT)
	if from >= traj.Len() {
		return 0, 0, fmt.Errorf("%w: window starts at %.1f days, run ends at %.1f",
			ErrInvalidParameter, w.Start, float64(traj.Len())*traj.DT)
	}
	to = traj.Len()
	if w.Length > 0 {
		to = from + int(math.Ceil(w.Length/traj.DT))
		if to > traj.Len() {
			to = traj.Len()
		}
	}
	return from, to, nil
}

// Print writes the summary in the fixed-width console format used by the
// compare command.
func (m *MetricsSummary) Print() {
	fmt.Printf("=== Relief Metrics: %s ===\n", m.Scenario)
	fmt.Printf("Structural Efficiency SE : %s\n", m.SE)
	fmt.Printf("Relief Efficiency RE     : %s\n", m.RE)
	fmt.Printf("Leakage Ratio            : %s\n", m.LeakageRatio)
	for i, frac := range coverageFractions {
		label := fmt.Sprintf("Time to %.0f%% coverage", frac*100)
		fmt.Printf("%-25s: %s days\n", label, m.TimeToCoverage[i])
	}
	for _, tier := range TierOrder {
		fmt.Printf("Response time %-11s: %s days\n", tier, m.ResponseTime[tier])
	}
	fmt.Printf("Median response time     : %s days\n", m.MedianResponseTime)
	fmt.Printf("Collected / Delivered / Leaked: %.1f / %.1f / %.1f\n", m.CumCollected, m.CumDelivered, m.CumLeakage)
	fmt.Printf("Final unmet need         : %.1f\n", m.FinalUnmetNeed)
}
