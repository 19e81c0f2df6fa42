package sim

// Test fixtures shared across the package tests. minimalParams is the
// smallest valid scenario: one transport mode per non-leaf tier, appeal and
// pledge channels off, so individual flows can be pinned down in isolation.

func minimalParams() *Parameters {
	p := &Parameters{
		Scenario:             "test",
		NeedScale:            1000,
		HazardOnsetThreshold: 10,
		Hazard:               ConstantSeries("hazard", 0),
		FoodPrice:            ConstantSeries("food_price", 1.0),
		NewsVolume:           ConstantSeries("news_volume", 0),
	}
	for _, tier := range []Tier{Central, Province, County} {
		p.Tiers[tier] = TierParams{
			DispatchShare: 0.5,
			Utilization:   1.0,
			NeedPriority:  1.0,
			Modes: []ModeParams{
				{Mode: ModeRoad, Capacity: 30, TransitDelay: 2, Leakage: 0},
			},
		}
	}
	p.Tiers[Central].CollectResponsiveness = 0.05
	p.Tiers[Central].CashFoodEfficiency = 1.0
	p.Tiers[Central].ProcurementDelay = 5
	p.Tiers[Village] = TierParams{
		DistributionRate: 80,
		HazardShare:      1.0,
	}
	return p
}

// mustRun builds and runs a simulator, failing the calling test via panic on
// any error; tests that care about the error path call NewSimulator
// directly.
func mustRun(p *Parameters, horizon, dt float64) *Trajectory {
	s, err := NewSimulator(p, horizon, dt)
	if err != nil {
		panic(err)
	}
	traj, err := s.Run()
	if err != nil {
		panic(err)
	}
	return traj
}
