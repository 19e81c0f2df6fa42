package sim

import (
	"fmt"
	"math"
)

// negativeStockTolerance absorbs floating-point noise when checking the
// non-negativity invariant; anything below it is a real violation.
const negativeStockTolerance = 1e-9

// TierState is the stock vector for one administrative tier at one point in
// time. All stocks are non-negative at every step; the flow clamps in
// evaluateTier enforce that by construction and the stepper asserts it.
//
// InTransit is indexed parallel to the tier's TierParams.Modes and holds the
// goods currently on the link to the child tier. ReceivedGoods is written by
// the parent's transport arrivals and is the only disbursable stock at a
// tier; whatever disbursement and work support leave of it is forwarded into
// the warehouse at non-leaf tiers, while the leaf (which holds no warehouse
// or in-transit stock) accumulates it as stored rations.
type TierState struct {
	PledgedFunds    float64   `yaml:"pledged_funds"`
	CollectedFunds  float64   `yaml:"collected_funds"`
	InProcurement   float64   `yaml:"in_procurement"`
	WarehouseGoods  float64   `yaml:"warehouse_goods"`
	InTransit       []float64 `yaml:"in_transit,omitempty"`
	ReceivedGoods   float64   `yaml:"received_goods"`
	OutstandingNeed float64   `yaml:"outstanding_need"`
	WorkBacklog     float64   `yaml:"work_backlog"`
	ActiveProjects  float64   `yaml:"active_projects"`
	LaborPool       float64   `yaml:"labor_pool"`
	MediaAttention  float64   `yaml:"media_attention"`
	AppealPressure  float64   `yaml:"appeal_pressure"`
}

// Clone returns a deep copy (the InTransit slice is not shared).
func (ts *TierState) Clone() TierState {
	out := *ts
	if ts.InTransit != nil {
		out.InTransit = append([]float64(nil), ts.InTransit...)
	}
	return out
}

// TotalInTransit sums the in-transit stock across all modes.
func (ts *TierState) TotalInTransit() float64 {
	var sum float64
	for _, v := range ts.InTransit {
		sum += v
	}
	return sum
}

// stockNames labels the scalar stocks in the order scalarStocks returns them.
var stockNames = []string{
	"pledged_funds", "collected_funds", "in_procurement", "warehouse_goods",
	"received_goods", "outstanding_need", "work_backlog", "active_projects",
	"labor_pool", "media_attention", "appeal_pressure",
}

// scalarStocks returns the scalar stock values in stockNames order.
// In-transit stocks are checked separately because they are per mode.
func (ts *TierState) scalarStocks() []float64 {
	return []float64{
		ts.PledgedFunds, ts.CollectedFunds, ts.InProcurement, ts.WarehouseGoods,
		ts.ReceivedGoods, ts.OutstandingNeed, ts.WorkBacklog, ts.ActiveProjects,
		ts.LaborPool, ts.MediaAttention, ts.AppealPressure,
	}
}

// checkNonNegative asserts the invariant after a tier update. Values inside
// the float tolerance are snapped to zero; anything further negative means
// the clamping logic is broken or the step size is too coarse for the
// configured delay constants, and the run is aborted.
func (ts *TierState) checkNonNegative(tier Tier, step int) error {
	snap := func(v *float64, name string) error {
		if *v >= 0 {
			return nil
		}
		if *v > -negativeStockTolerance {
			*v = 0
			return nil
		}
		return fmt.Errorf("%w: %s.%s = %v at step %d", ErrNegativeStock, tier, name, *v, step)
	}
	if err := snap(&ts.PledgedFunds, "pledged_funds"); err != nil {
		return err
	}
	if err := snap(&ts.CollectedFunds, "collected_funds"); err != nil {
		return err
	}
	if err := snap(&ts.InProcurement, "in_procurement"); err != nil {
		return err
	}
	if err := snap(&ts.WarehouseGoods, "warehouse_goods"); err != nil {
		return err
	}
	for i := range ts.InTransit {
		if err := snap(&ts.InTransit[i], fmt.Sprintf("in_transit[%d]", i)); err != nil {
			return err
		}
	}
	if err := snap(&ts.ReceivedGoods, "received_goods"); err != nil {
		return err
	}
	if err := snap(&ts.OutstandingNeed, "outstanding_need"); err != nil {
		return err
	}
	if err := snap(&ts.WorkBacklog, "work_backlog"); err != nil {
		return err
	}
	if err := snap(&ts.ActiveProjects, "active_projects"); err != nil {
		return err
	}
	if err := snap(&ts.LaborPool, "labor_pool"); err != nil {
		return err
	}
	if err := snap(&ts.MediaAttention, "media_attention"); err != nil {
		return err
	}
	return snap(&ts.AppealPressure, "appeal_pressure")
}

// validateInitial checks an initial stock vector at Parameters validation
// time: every stock finite and non-negative, the in-transit vector either
// empty or matching the tier's declared modes, and no warehouse or
// in-transit stock at the leaf.
func (ts *TierState) validateInitial(tier Tier, numModes int) error {
	prefix := tier.String() + ".initial"
	for i, v := range ts.scalarStocks() {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s.%s must be finite and non-negative, got %v",
				ErrInvalidParameter, prefix, stockNames[i], v)
		}
	}
	if len(ts.InTransit) != 0 && len(ts.InTransit) != numModes {
		return fmt.Errorf("%w: %s.in_transit has %d entries, tier declares %d modes",
			ErrInvalidParameter, prefix, len(ts.InTransit), numModes)
	}
	for i, v := range ts.InTransit {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s.in_transit[%d] must be finite and non-negative, got %v",
				ErrInvalidParameter, prefix, i, v)
		}
	}
	if tier.IsLeaf() && (ts.WarehouseGoods != 0 || len(ts.InTransit) != 0) {
		return fmt.Errorf("%w: %s: the leaf tier holds no warehouse or in-transit stock",
			ErrInvalidParameter, prefix)
	}
	return nil
}
