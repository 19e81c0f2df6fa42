package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator advances the four-tier relief model from its initial stocks to
// the configured horizon with a fixed-step explicit Euler scheme. One
// Simulator serves one run; independent runs share nothing and can be farmed
// out across goroutines or processes by an external calibration driver.
//
// The tier update order inside a step is an explicit contract, not an
// iteration accident: Central is integrated first and each tier's transport
// arrivals are credited to its child before the child is evaluated, so a
// dispatch decision is visible one tier down within the same step (a
// one-step-lag cascade, never a simultaneous solve).
type Simulator struct {
	Params  *Parameters
	Horizon float64 // days
	DT      float64 // days per step
	Steps   int

	// Evacuation, when non-nil, is consulted at every 7-day boundary per
	// the weekly exchange contract. A nil model means no evacuation.
	Evacuation EvacuationModel
}

// NewSimulator validates the parameters against the requested horizon and
// step size. A step size that is coarse relative to the smallest configured
// delay constant degrades the delay dynamics; that is a documented
// precondition of the explicit scheme, so it logs a warning rather than
// failing.
func NewSimulator(params *Parameters, horizon, dt float64) (*Simulator, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: parameters are nil", ErrInvalidParameter)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if horizon <= 0 || math.IsNaN(horizon) || math.IsInf(horizon, 0) {
		return nil, fmt.Errorf("%w: horizon must be positive, got %v", ErrInvalidParameter, horizon)
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: step size must be positive, got %v", ErrInvalidParameter, dt)
	}
	steps := int(math.Ceil(horizon / dt))
	if err := params.checkSeries(steps); err != nil {
		return nil, err
	}
	if minDelay := params.MinDelay(); !math.IsInf(minDelay, 1) && dt > minDelay/2 {
		logrus.Warnf("[%s] step size %.3g exceeds half the smallest delay constant %.3g; delay dynamics may be inaccurate",
			params.Scenario, dt, minDelay)
	}
	return &Simulator{Params: params, Horizon: horizon, DT: dt, Steps: steps}, nil
}

// Run executes the full simulation and returns the trajectory. On any
// internal-consistency failure (a stock driven negative past tolerance) it
// returns no trajectory at all: a run either completes whole or not at all.
// Run is deterministic; calling it twice on equivalent simulators yields
// identical trajectories.
func (s *Simulator) Run() (*Trajectory, error) {
	p := s.Params
	states := s.initialStates()
	traj := newTrajectory(p.Scenario, s.DT, s.Steps)
	for _, tier := range TierOrder {
		traj.InitialNeed += states[tier].OutstandingNeed
	}

	stepsPerWeek := weeklySteps(s.DT)
	var cumCollected, cumDelivered, cumLeakage, cumHazard float64
	var weeklyVillageArrival float64

	logrus.Infof("[%s] starting run: horizon=%.1f days, dt=%.3g, %d steps", p.Scenario, s.Horizon, s.DT, s.Steps)

	for step := 0; step < s.Steps; step++ {
		snap := Snapshot{Step: step, Time: float64(step) * s.DT}

		// Weekly exchange with the evacuation model, applied before the
		// first step of each new week.
		if s.Evacuation != nil && step > 0 && step%stepsPerWeek == 0 {
			week := step/stepsPerWeek - 1
			snap.Evacuation = applyEvacuation(s.Evacuation, &states, week, weeklyVillageArrival)
			weeklyVillageArrival = 0
			if snap.Evacuation > 0 {
				logrus.Debugf("[%s] week %d: evacuation share %.3f", p.Scenario, week, snap.Evacuation)
			}
		}

		hazard := p.Hazard.At(step)
		if traj.OnsetStep < 0 && hazard > p.HazardOnsetThreshold {
			traj.OnsetStep = step
		}
		cumHazard += hazard * s.DT

		for _, tier := range TierOrder {
			tp := &p.Tiers[tier]
			f := evaluateTier(&states, tier, p, step, s.DT)
			applyFlows(&states, tier, tp, &f, s.DT)
			if err := states[tier].checkNonNegative(tier, step); err != nil {
				return nil, err
			}

			if tp.CashFoodEfficiency > 0 {
				cumCollected += f.CollectRate * tp.CashFoodEfficiency / p.FoodPrice.At(step) * s.DT
			}
			cumDelivered += (f.Disburse + f.WorkTransfer) * s.DT
			cumLeakage += (f.WarehouseLeak + f.TransitLeakTotal()) * s.DT

			if traj.FirstArrivalStep[tier] < 0 && tier == Central && f.ProcureIntake > 0 {
				traj.FirstArrivalStep[tier] = step
			}
			if child, ok := tier.Child(); ok && f.ArrivalTotal() > 0 {
				if traj.FirstArrivalStep[child] < 0 {
					traj.FirstArrivalStep[child] = step
				}
				if child == Village {
					weeklyVillageArrival += f.ArrivalTotal() * s.DT
				}
			}
			snap.Flows[tier] = f
		}

		for _, tier := range TierOrder {
			snap.States[tier] = states[tier].Clone()
		}
		snap.CumCollected = cumCollected
		snap.CumDelivered = cumDelivered
		snap.CumLeakage = cumLeakage
		snap.CumHazard = cumHazard
		traj.Snapshots = append(traj.Snapshots, snap)
	}

	logrus.Infof("[%s] run complete: collected=%.1f delivered=%.1f leaked=%.1f (mass-equivalent)",
		p.Scenario, cumCollected, cumDelivered, cumLeakage)
	return traj, nil
}

// initialStates copies the configured initial stocks and normalizes each
// tier's in-transit vector to its declared mode count, so reruns from the
// same Parameters always start from an identical state.
func (s *Simulator) initialStates() [NumTiers]TierState {
	var states [NumTiers]TierState
	for _, tier := range TierOrder {
		st := s.Params.Initial[tier].Clone()
		if n := len(s.Params.Tiers[tier].Modes); len(st.InTransit) != n {
			st.InTransit = make([]float64, n)
		}
		states[tier] = st
	}
	return states
}
