package sim

import (
	"fmt"
	"math"
)

// TransportMode names a physical shipping mode on a tier link.
type TransportMode string

const (
	ModeRoad  TransportMode = "road"
	ModeWater TransportMode = "water"
	ModeRail  TransportMode = "rail"
)

// validTransportModes maps accepted mode names.
var validTransportModes = map[TransportMode]bool{
	ModeRoad: true, ModeWater: true, ModeRail: true,
}

// MediaCoupling selects how media attention feeds back into dispatch
// aggressiveness. Collection always scales with attention (α·M); the
// coupling mode is the additional effect on θ and is a scenario choice,
// never hardcoded.
type MediaCoupling string

const (
	// MediaCouplingNone leaves θ untouched by media attention.
	MediaCouplingNone MediaCoupling = "none"
	// MediaCouplingAdditive adds couplingGain·M/(1+M) to θ.
	MediaCouplingAdditive MediaCoupling = "additive"
	// MediaCouplingMultiplicative scales θ by 1+couplingGain·M/(1+M).
	MediaCouplingMultiplicative MediaCoupling = "multiplicative"
)

var validMediaCouplings = map[MediaCoupling]bool{
	MediaCouplingNone: true, MediaCouplingAdditive: true, MediaCouplingMultiplicative: true,
	"": true, // empty defaults to none
}

// ModeParams configures one transport mode on the link from a tier to its
// child. Capacity and delay are unbounded positives; leakage is a daily
// share.
type ModeParams struct {
	Mode         TransportMode `yaml:"mode"`
	Capacity     float64       `yaml:"capacity"`      // K: mass/day throughput ceiling
	TransitDelay float64       `yaml:"transit_delay"` // τ_tr: mean days en route (> 0)
	Leakage      float64       `yaml:"leakage"`       // λ_tr: share of in-transit stock lost per day, in [0,1]
}

// TierParams holds one tier's behavioral coefficients. Rates are per day;
// shares are dimensionless fractions in [0,1]; capacities, delays, and
// wage-like quantities are unbounded non-negatives.
type TierParams struct {
	// Funds.
	CollectResponsiveness float64 `yaml:"collect_responsiveness"` // α: currency/day collected per unit media attention
	AdminFriction         float64 `yaml:"admin_friction"`         // φ: flat administrative drag on collection, currency/day
	PledgeResponsiveness  float64 `yaml:"pledge_responsiveness"`  // pledge inflow, currency/day per unit information pressure

	// Procurement. A zero ProcurementDelay disables purchasing at this tier.
	CashFoodEfficiency float64 `yaml:"cash_food_efficiency"` // ρ: share of spend converted to food, in [0,1]
	ProcurementDelay   float64 `yaml:"procurement_delay"`    // τ_proc: days for orders to reach the warehouse
	ProcurementCap     float64 `yaml:"procurement_cap"`      // mass/day ceiling on purchased intake

	// Dispatch policy.
	DispatchShare float64 `yaml:"dispatch_share"` // θ: share of warehouse released per day, in [0,1]
	Utilization   float64 `yaml:"utilization"`    // η: usable share of mode capacity, in [0,1]
	NeedPriority  float64 `yaml:"need_priority"`  // δ: share of downstream need targeted per day, in [0,1]

	// Losses.
	WarehouseLeakage float64 `yaml:"warehouse_leakage"` // λ_w: share of warehouse stock lost per day, in [0,1]

	// Household distribution.
	DistributionRate float64 `yaml:"distribution_rate"` // mass/day ceiling on rations handed out
	HazardShare      float64 `yaml:"hazard_share"`      // share of hazard inflow accruing as need here, in [0,1]

	// Work relief. A zero WorkCapacity disables the program at this tier.
	WorkCapacity     float64 `yaml:"work_capacity"`       // max concurrently active projects
	WorkSetupDelay   float64 `yaml:"work_setup_delay"`    // τ_work: days to stand a project up
	WorkDuration     float64 `yaml:"work_duration"`       // mean project lifetime, days
	WorkWage         float64 `yaml:"work_wage"`           // w: household transfer per active project per day
	WorkSupportCost  float64 `yaml:"work_support_cost"`   // goods consumed per active project per day
	WorkLaborPerUnit float64 `yaml:"work_labor_per_unit"` // persons employed per active project
	WorkHazardGrowth float64 `yaml:"work_hazard_growth"`  // backlog added per unit hazard inflow

	// Information dynamics.
	MediaGain         float64 `yaml:"media_gain"`          // κ
	MediaDecay        float64 `yaml:"media_decay"`         // μ
	MediaNeedWeight   float64 `yaml:"media_need_weight"`   // endogenous news pulse: weight on Need/NeedScale
	MediaHazardWeight float64 `yaml:"media_hazard_weight"` // endogenous news pulse: weight on hazard inflow
	AppealGain        float64 `yaml:"appeal_gain"`         // k_req
	AppealDecay       float64 `yaml:"appeal_decay"`        // μ_app
	AppealMediaWeight float64 `yaml:"appeal_media_weight"` // media term inside appeal inflow

	// Transport modes on the link to the child. Must be empty at the leaf.
	Modes []ModeParams `yaml:"modes"`
}

// Parameters is the immutable configuration for one scenario run: per-tier
// coefficient blocks, scenario-wide settings, exogenous series, and the
// initial stock vector. Construct it (directly, via a builtin scenario, or
// from YAML), then Validate; the simulator treats it as read-only.
type Parameters struct {
	Scenario string // label, e.g. "1931", "1954", "1954-no-rail"

	Tiers [NumTiers]TierParams

	MediaCouplingMode MediaCoupling // feedback of attention into θ
	MediaCouplingGain float64       // κ_θ, strength of the θ coupling

	NeedScale            float64 // mass-equivalent normalizer for information flows
	HazardOnsetThreshold float64 // hazard level that marks flood onset for response-time metrics

	// Exogenous inputs, keyed by step index. Hazard and FoodPrice are
	// required; NewsVolume may be all-zero when the endogenous news-pulse
	// weights carry the information channel.
	Hazard     Series // H(t): mass-equivalent need inflow per day
	FoodPrice  Series // P_food(t): currency per unit mass, strictly positive
	NewsVolume Series // V(t): external news volume per day

	// Initial stocks per tier. The simulator copies these; reruns from the
	// same Parameters always start identically.
	Initial [NumTiers]TierState
}

// NewParameters assembles a validated scenario record from its parts.
// NeedScale defaults to 1; callers needing the full option surface (media
// coupling, onset threshold, initial stocks) fill the struct directly and
// call Validate, which is what the builtin tables and the YAML loader do.
func NewParameters(label string, tiers [NumTiers]TierParams, hazard, foodPrice, newsVolume Series) (*Parameters, error) {
	p := &Parameters{
		Scenario:   label,
		Tiers:      tiers,
		NeedScale:  1,
		Hazard:     hazard,
		FoodPrice:  foodPrice,
		NewsVolume: newsVolume,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks every coefficient against its declared domain. It reports
// the first violation wrapped in ErrInvalidParameter; series coverage is
// checked separately once the horizon is known (NewSimulator).
func (p *Parameters) Validate() error {
	if p.Scenario == "" {
		return fmt.Errorf("%w: scenario label is empty", ErrInvalidParameter)
	}
	if !validMediaCouplings[p.MediaCouplingMode] {
		return fmt.Errorf("%w: unknown media coupling %q; valid: none, additive, multiplicative",
			ErrInvalidParameter, p.MediaCouplingMode)
	}
	if err := nonNegativeFinite("media_coupling_gain", p.MediaCouplingGain); err != nil {
		return err
	}
	if err := positiveFinite("need_scale", p.NeedScale); err != nil {
		return err
	}
	if err := nonNegativeFinite("hazard_onset_threshold", p.HazardOnsetThreshold); err != nil {
		return err
	}
	for _, tier := range TierOrder {
		if err := p.Tiers[tier].validate(tier); err != nil {
			return err
		}
		if err := p.Initial[tier].validateInitial(tier, len(p.Tiers[tier].Modes)); err != nil {
			return err
		}
	}
	if p.FoodPrice.Len() > 0 && p.FoodPrice.Min() <= 0 {
		return fmt.Errorf("%w: food price series %q must stay strictly positive", ErrInvalidParameter, p.FoodPrice.Name)
	}
	return nil
}

func (tp *TierParams) validate(tier Tier) error {
	prefix := tier.String()
	unitShares := []struct {
		name string
		v    float64
	}{
		{"cash_food_efficiency", tp.CashFoodEfficiency},
		{"dispatch_share", tp.DispatchShare},
		{"utilization", tp.Utilization},
		{"need_priority", tp.NeedPriority},
		{"warehouse_leakage", tp.WarehouseLeakage},
		{"hazard_share", tp.HazardShare},
	}
	for _, s := range unitShares {
		if err := unitInterval(prefix+"."+s.name, s.v); err != nil {
			return err
		}
	}
	unbounded := []struct {
		name string
		v    float64
	}{
		{"collect_responsiveness", tp.CollectResponsiveness},
		{"admin_friction", tp.AdminFriction},
		{"pledge_responsiveness", tp.PledgeResponsiveness},
		{"procurement_delay", tp.ProcurementDelay},
		{"procurement_cap", tp.ProcurementCap},
		{"distribution_rate", tp.DistributionRate},
		{"work_capacity", tp.WorkCapacity},
		{"work_setup_delay", tp.WorkSetupDelay},
		{"work_duration", tp.WorkDuration},
		{"work_wage", tp.WorkWage},
		{"work_support_cost", tp.WorkSupportCost},
		{"work_labor_per_unit", tp.WorkLaborPerUnit},
		{"work_hazard_growth", tp.WorkHazardGrowth},
		{"media_gain", tp.MediaGain},
		{"media_decay", tp.MediaDecay},
		{"media_need_weight", tp.MediaNeedWeight},
		{"media_hazard_weight", tp.MediaHazardWeight},
		{"appeal_gain", tp.AppealGain},
		{"appeal_decay", tp.AppealDecay},
		{"appeal_media_weight", tp.AppealMediaWeight},
	}
	for _, u := range unbounded {
		if err := nonNegativeFinite(prefix+"."+u.name, u.v); err != nil {
			return err
		}
	}
	if tp.ProcurementDelay > 0 && tp.CashFoodEfficiency <= 0 {
		return fmt.Errorf("%w: %s.cash_food_efficiency must be positive when procurement is enabled",
			ErrInvalidParameter, prefix)
	}
	if tp.WorkCapacity > 0 {
		if tp.WorkSetupDelay <= 0 {
			return fmt.Errorf("%w: %s.work_setup_delay must be positive when work relief is enabled",
				ErrInvalidParameter, prefix)
		}
		if tp.WorkDuration <= 0 {
			return fmt.Errorf("%w: %s.work_duration must be positive when work relief is enabled",
				ErrInvalidParameter, prefix)
		}
	}
	if tier.IsLeaf() && len(tp.Modes) > 0 {
		return fmt.Errorf("%w: %s has no child and cannot declare transport modes", ErrInvalidParameter, prefix)
	}
	seen := map[TransportMode]bool{}
	for i, m := range tp.Modes {
		mp := fmt.Sprintf("%s.modes[%d]", prefix, i)
		if !validTransportModes[m.Mode] {
			return fmt.Errorf("%w: %s: unknown mode %q; valid: road, water, rail", ErrInvalidParameter, mp, m.Mode)
		}
		if seen[m.Mode] {
			return fmt.Errorf("%w: %s: duplicate mode %q", ErrInvalidParameter, mp, m.Mode)
		}
		seen[m.Mode] = true
		if err := nonNegativeFinite(mp+".capacity", m.Capacity); err != nil {
			return err
		}
		if err := positiveFinite(mp+".transit_delay", m.TransitDelay); err != nil {
			return err
		}
		if err := unitInterval(mp+".leakage", m.Leakage); err != nil {
			return err
		}
	}
	return nil
}

// MinDelay returns the smallest configured delay constant across procurement,
// transport, and work-relief setup. The integrator's step size must stay
// small relative to it; MinDelay backs that warning.
func (p *Parameters) MinDelay() float64 {
	min := math.Inf(1)
	for _, tier := range TierOrder {
		tp := p.Tiers[tier]
		if tp.ProcurementDelay > 0 && tp.ProcurementDelay < min {
			min = tp.ProcurementDelay
		}
		if tp.WorkCapacity > 0 && tp.WorkSetupDelay < min {
			min = tp.WorkSetupDelay
		}
		for _, m := range tp.Modes {
			if m.TransitDelay < min {
				min = m.TransitDelay
			}
		}
	}
	return min
}

// checkSeries verifies all exogenous series cover a run of the given length.
func (p *Parameters) checkSeries(steps int) error {
	if err := p.Hazard.CheckCoverage(steps); err != nil {
		return err
	}
	if err := p.FoodPrice.CheckCoverage(steps); err != nil {
		return err
	}
	if err := p.NewsVolume.CheckCoverage(steps); err != nil {
		return err
	}
	return nil
}

func unitInterval(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, name, v)
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must lie in [0,1], got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

func nonNegativeFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

func positiveFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, name, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}
