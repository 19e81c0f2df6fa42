package sim

import "math"

// Flows holds every instantaneous rate computed for one tier at one step.
// All rates are per day. The evaluator fills it; the stepper applies it and
// the trajectory keeps it for diagnostics, so losses stay visible instead of
// disappearing into disbursement accounting.
type Flows struct {
	// Funds.
	PledgeRate  float64 // currency/day pledged
	CollectRate float64 // currency/day collected

	// Procurement.
	ProcureTarget  float64 // instantaneous target of the procurement lag
	ProcureLagRate float64 // d(InProcurement)/dt, signed
	ProcureIntake  float64 // mass/day credited to the warehouse
	ProcureSpend   float64 // currency/day debited from collected funds

	// Dispatch and transport, indexed parallel to TierParams.Modes.
	Dispatch    []float64 // mass/day released onto each mode
	Arrival     []float64 // mass/day arriving at the child from each mode
	TransitLeak []float64 // mass/day lost in transit per mode

	// Losses and distribution.
	WarehouseLeak float64 // mass/day lost from the warehouse
	Disburse      float64 // mass/day of rations handed to households

	// Work relief.
	WorkBacklogGrowth float64 // projects/day added to the backlog
	WorkActivation    float64 // projects/day standing up
	WorkCompletion    float64 // projects/day finishing
	WorkSupport       float64 // mass/day consumed supporting active projects
	WorkTransfer      float64 // mass-equivalent/day paid to households as wages

	// Information.
	NewsIn      float64
	MediaDecay  float64
	AppealIn    float64
	AppealDecay float64

	// Need.
	NeedInflow float64 // mass-equivalent/day accruing from hazard
}

// DispatchTotal sums dispatch across modes.
func (f *Flows) DispatchTotal() float64 {
	var sum float64
	for _, v := range f.Dispatch {
		sum += v
	}
	return sum
}

// ArrivalTotal sums arrivals across modes.
func (f *Flows) ArrivalTotal() float64 {
	var sum float64
	for _, v := range f.Arrival {
		sum += v
	}
	return sum
}

// TransitLeakTotal sums in-transit losses across modes.
func (f *Flows) TransitLeakTotal() float64 {
	var sum float64
	for _, v := range f.TransitLeak {
		sum += v
	}
	return sum
}

// evaluateTier computes every flow rate for one tier at the given step. It is
// a pure function of the current states, the parameters, the step index, and
// the step size (needed only to clamp per-step outflows at their source
// stocks): identical inputs always produce identical flows, which is what
// lets an external calibrator call the simulator as a deterministic black
// box.
//
// Clamping policy: every outflow is bounded so that one Euler step cannot
// drive its source stock negative. Where several outflows share a source
// (dispatch plus warehouse leakage, arrival plus transit leakage) the group
// is scaled down proportionally.
func evaluateTier(states *[NumTiers]TierState, tier Tier, p *Parameters, step int, dt float64) Flows {
	tp := &p.Tiers[tier]
	st := &states[tier]
	f := Flows{
		Dispatch:    make([]float64, len(tp.Modes)),
		Arrival:     make([]float64, len(tp.Modes)),
		TransitLeak: make([]float64, len(tp.Modes)),
	}

	hazard := p.Hazard.At(step)
	price := p.FoodPrice.At(step)
	news := p.NewsVolume.At(step)

	// Information flows. The endogenous weights reproduce the archival news
	// pulse (hazard and unmet need generate coverage); with them zeroed the
	// attention stock is the plain leaky integrator dM/dt = κ·V − μ·M.
	f.NewsIn = tp.MediaGain * (news + tp.MediaNeedWeight*st.OutstandingNeed/p.NeedScale + tp.MediaHazardWeight*hazard)
	f.MediaDecay = tp.MediaDecay * st.MediaAttention
	f.AppealIn = tp.AppealGain * (st.OutstandingNeed/p.NeedScale + tp.AppealMediaWeight*st.MediaAttention)
	f.AppealDecay = tp.AppealDecay * st.AppealPressure

	// Pledging and collection. A zero PledgeResponsiveness disables the
	// pledge ledger: collection then draws directly on the donor public
	// (α·M − φ) instead of on outstanding pledges.
	f.PledgeRate = tp.PledgeResponsiveness * (st.MediaAttention + st.AppealPressure)
	collect := tp.CollectResponsiveness*st.MediaAttention - tp.AdminFriction
	if collect < 0 {
		collect = 0
	}
	if tp.PledgeResponsiveness > 0 {
		collect = math.Min(collect, st.PledgedFunds/dt)
	}
	f.CollectRate = collect

	// Procurement: a first-order lag, not a proportional rate. The
	// in-procurement stock chases the instantaneous target ρ·funds/price
	// with time constant τ_proc, and the warehouse is credited by the lag
	// state's rate of change, capped by the buy ceiling and by what the
	// tier can actually pay for this step.
	if tp.ProcurementDelay > 0 {
		f.ProcureTarget = tp.CashFoodEfficiency * st.CollectedFunds / price
		f.ProcureLagRate = (f.ProcureTarget - st.InProcurement) / tp.ProcurementDelay
		intake := math.Max(0, f.ProcureLagRate)
		if tp.ProcurementCap > 0 {
			intake = math.Min(intake, tp.ProcurementCap)
		}
		intake = math.Min(intake, tp.CashFoodEfficiency*st.CollectedFunds/(price*dt))
		f.ProcureIntake = intake
		f.ProcureSpend = intake * price / tp.CashFoodEfficiency
	}

	// Warehouse outflows: leakage plus the three-way-minimum dispatch
	// policy, filled mode by mode in declared order. δ is scaled by the
	// appeal prioritization weight A/(1+A); a tier with the appeal channel
	// disabled prioritizes at full δ.
	f.WarehouseLeak = tp.WarehouseLeakage * st.WarehouseGoods
	if !tier.IsLeaf() && len(tp.Modes) > 0 {
		thetaEff := effectiveDispatchShare(tp.DispatchShare, st.MediaAttention, p)
		prior := 1.0
		if tp.AppealGain > 0 {
			prior = st.AppealPressure / (1 + st.AppealPressure)
		}
		need := downstreamNeed(states, tier)
		want := math.Min(thetaEff*st.WarehouseGoods, tp.NeedPriority*prior*need)
		remaining := math.Max(0, want)
		for i, m := range tp.Modes {
			take := math.Min(remaining, tp.Utilization*m.Capacity)
			f.Dispatch[i] = take
			remaining -= take
		}
	}
	scaleGroup(st.WarehouseGoods, dt, &f.WarehouseLeak, f.Dispatch)

	// Transport: per-mode first-order delay. The depletion of the
	// in-transit stock at rate 1/τ is the arrival credited to the child.
	for i, m := range tp.Modes {
		f.Arrival[i] = st.InTransit[i] / m.TransitDelay
		f.TransitLeak[i] = m.Leakage * st.InTransit[i]
		out := (f.Arrival[i] + f.TransitLeak[i]) * dt
		if out > st.InTransit[i] && out > 0 {
			scale := st.InTransit[i] / out
			f.Arrival[i] *= scale
			f.TransitLeak[i] *= scale
		}
	}

	// Disbursement: rations out of received goods, bounded by the handout
	// capacity and by what is still needed.
	if st.OutstandingNeed > 0 {
		f.Disburse = math.Min(st.ReceivedGoods/dt, math.Min(tp.DistributionRate, st.OutstandingNeed/dt))
		f.Disburse = math.Max(0, f.Disburse)
	}

	// Work relief. Activation is a first-order setup delay over the feasible
	// pending set (backlog, capacity headroom, labor); active projects
	// consume support goods from what disbursement left over, and pay wages
	// scaled by that support availability.
	if tp.WorkCapacity > 0 {
		f.WorkBacklogGrowth = tp.WorkHazardGrowth * hazard
		pending := math.Min(st.WorkBacklog, tp.WorkCapacity-st.ActiveProjects)
		if tp.WorkLaborPerUnit > 0 {
			pending = math.Min(pending, st.LaborPool/tp.WorkLaborPerUnit-st.ActiveProjects)
		}
		pending = math.Max(0, pending)
		f.WorkActivation = pending / tp.WorkSetupDelay
		f.WorkCompletion = st.ActiveProjects / tp.WorkDuration
		support := tp.WorkSupportCost * st.ActiveProjects
		availability := 1.0
		if support > 0 {
			goodsLeft := math.Max(0, st.ReceivedGoods/dt-f.Disburse)
			if support > goodsLeft {
				availability = goodsLeft / support
			}
		}
		f.WorkSupport = support * availability
		f.WorkTransfer = tp.WorkWage * st.ActiveProjects * availability
	}

	f.NeedInflow = tp.HazardShare * hazard
	return f
}

// effectiveDispatchShare applies the configured media coupling to θ. The
// saturating M/(1+M) keeps the coupled share bounded however large the
// attention stock grows; the result is clamped to [0,1] so dispatch stays a
// share of the warehouse.
func effectiveDispatchShare(theta, media float64, p *Parameters) float64 {
	sat := media / (1 + media)
	switch p.MediaCouplingMode {
	case MediaCouplingAdditive:
		theta += p.MediaCouplingGain * sat
	case MediaCouplingMultiplicative:
		theta *= 1 + p.MediaCouplingGain*sat
	}
	return math.Min(1, math.Max(0, theta))
}

// downstreamNeed sums outstanding need over all tiers strictly below the
// given one. No pipeline netting: goods already in transit do not reduce the
// need a tier sees, matching how relief bureaus re-requested against gross
// unmet need.
func downstreamNeed(states *[NumTiers]TierState, tier Tier) float64 {
	var sum float64
	for t := tier + 1; t < NumTiers; t++ {
		sum += states[t].OutstandingNeed
	}
	return sum
}

// scaleGroup scales a set of outflows sharing one source stock so their
// combined one-step drain cannot exceed the stock.
func scaleGroup(stock, dt float64, leak *float64, flows []float64) {
	total := *leak
	for _, v := range flows {
		total += v
	}
	out := total * dt
	if out <= stock || out <= 0 {
		return
	}
	scale := stock / out
	*leak *= scale
	for i := range flows {
		flows[i] *= scale
	}
}

// applyFlows integrates one tier's flows into the state vector by one Euler
// step. It also credits the child's received stock with this step's
// arrivals, which is the top-down cascade contract: the child is evaluated
// after its parent within the same step and sees these goods immediately.
func applyFlows(states *[NumTiers]TierState, tier Tier, tp *TierParams, f *Flows, dt float64) {
	st := &states[tier]

	if tp.PledgeResponsiveness > 0 {
		st.PledgedFunds += (f.PledgeRate - f.CollectRate) * dt
	}
	st.CollectedFunds += (f.CollectRate - f.ProcureSpend) * dt
	st.InProcurement += f.ProcureLagRate * dt
	st.WarehouseGoods += (f.ProcureIntake - f.DispatchTotal() - f.WarehouseLeak) * dt

	for i := range tp.Modes {
		st.InTransit[i] += (f.Dispatch[i] - f.Arrival[i] - f.TransitLeak[i]) * dt
	}
	if child, ok := tier.Child(); ok {
		states[child].ReceivedGoods += f.ArrivalTotal() * dt
	}

	st.ReceivedGoods -= (f.Disburse + f.WorkSupport) * dt

	// Non-leaf tiers forward what distribution and work support left of
	// their receipts into the warehouse for onward dispatch; only the leaf
	// accumulates received goods as stored rations.
	if !tier.IsLeaf() && st.ReceivedGoods > 0 {
		st.WarehouseGoods += st.ReceivedGoods
		st.ReceivedGoods = 0
	}

	// Rations and work-relief wages both retire need; the combined
	// reduction is clamped so a large wage bill cannot push need negative.
	needReduce := math.Min(f.Disburse+f.WorkTransfer, st.OutstandingNeed/dt+f.NeedInflow)
	st.OutstandingNeed += (f.NeedInflow - needReduce) * dt

	st.WorkBacklog += (f.WorkBacklogGrowth - f.WorkActivation) * dt
	st.ActiveProjects += (f.WorkActivation - f.WorkCompletion) * dt

	st.MediaAttention += (f.NewsIn - f.MediaDecay) * dt
	st.AppealPressure += (f.AppealIn - f.AppealDecay) * dt
}
