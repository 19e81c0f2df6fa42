package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Alane0307/SD-Flood-Relief/sim"
	"github.com/Alane0307/SD-Flood-Relief/sim/forcing"
)

// scenarioFile is the YAML shape of a scenario parameter file. It maps
// one-to-one onto sim.Parameters; validation is left to Parameters.Validate
// so YAML-loaded and built-in scenarios go through the same checks.
type scenarioFile struct {
	Scenario             string  `yaml:"scenario"`
	MediaCoupling        string  `yaml:"media_coupling,omitempty"`
	MediaCouplingGain    float64 `yaml:"media_coupling_gain,omitempty"`
	NeedScale            float64 `yaml:"need_scale"`
	HazardOnsetThreshold float64 `yaml:"hazard_onset_threshold,omitempty"`

	Series struct {
		Hazard     seriesSpec `yaml:"hazard"`
		FoodPrice  seriesSpec `yaml:"food_price"`
		NewsVolume seriesSpec `yaml:"news_volume"`
	} `yaml:"series"`

	Tiers map[string]tierSpec `yaml:"tiers"`
}

// tierSpec pairs one tier's coefficients with its initial stocks.
type tierSpec struct {
	Params  sim.TierParams `yaml:"params"`
	Initial sim.TierState  `yaml:"initial,omitempty"`
}

// seriesSpec declares one exogenous series. Exactly one of the builder
// fields must be set.
type seriesSpec struct {
	Constant *float64   `yaml:"constant,omitempty"`
	Values   []float64  `yaml:"values,omitempty"`
	HoldLast bool       `yaml:"hold_last,omitempty"`
	CSV      string     `yaml:"csv,omitempty"`
	Pulse    *pulseSpec `yaml:"pulse,omitempty"`
	Noise    *noiseSpec `yaml:"noise,omitempty"`
}

type pulseSpec struct {
	Steps    int     `yaml:"steps"`
	Start    int     `yaml:"start"`
	Duration int     `yaml:"duration"`
	Base     float64 `yaml:"base"`
	Peak     float64 `yaml:"peak"`
}

type noiseSpec struct {
	Seed      int64   `yaml:"seed"`
	Steps     int     `yaml:"steps"`
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

func (s *seriesSpec) build(name string) (sim.Series, error) {
	set := 0
	for _, used := range []bool{s.Constant != nil, len(s.Values) > 0, s.CSV != "", s.Pulse != nil, s.Noise != nil} {
		if used {
			set++
		}
	}
	if set != 1 {
		return sim.Series{}, fmt.Errorf("series %q: set exactly one of constant, values, csv, pulse, noise", name)
	}
	switch {
	case s.Constant != nil:
		return forcing.Constant(name, *s.Constant), nil
	case len(s.Values) > 0:
		out := sim.NewSeries(name, s.Values)
		out.HoldLast = s.HoldLast
		return out, nil
	case s.CSV != "":
		return forcing.FromCSV(name, s.CSV)
	case s.Pulse != nil:
		return forcing.Pulse(name, s.Pulse.Steps, s.Pulse.Start, s.Pulse.Duration, s.Pulse.Base, s.Pulse.Peak), nil
	default:
		return forcing.FloodWave(name, s.Noise.Seed, s.Noise.Steps, s.Noise.Base, s.Noise.Amplitude, s.Noise.Frequency), nil
	}
}

// LoadScenario reads a YAML scenario file into validated Parameters. Strict
// parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*sim.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var file scenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	return file.toParameters()
}

func (f *scenarioFile) toParameters() (*sim.Parameters, error) {
	p := &sim.Parameters{
		Scenario:             f.Scenario,
		MediaCouplingMode:    sim.MediaCoupling(f.MediaCoupling),
		MediaCouplingGain:    f.MediaCouplingGain,
		NeedScale:            f.NeedScale,
		HazardOnsetThreshold: f.HazardOnsetThreshold,
	}
	var err error
	if p.Hazard, err = f.Series.Hazard.build("hazard"); err != nil {
		return nil, err
	}
	if p.FoodPrice, err = f.Series.FoodPrice.build("food_price"); err != nil {
		return nil, err
	}
	if p.NewsVolume, err = f.Series.NewsVolume.build("news_volume"); err != nil {
		return nil, err
	}
	for name, spec := range f.Tiers {
		tier, err := sim.ParseTier(name)
		if err != nil {
			return nil, err
		}
		p.Tiers[tier] = spec.Params
		p.Initial[tier] = spec.Initial
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveScenario maps a --scenario argument to Parameters: a built-in
// label first, otherwise a YAML file path.
func resolveScenario(arg string) (*sim.Parameters, error) {
	if p, ok := sim.BuiltinScenario(arg); ok {
		return p, nil
	}
	if _, err := os.Stat(arg); err != nil {
		return nil, fmt.Errorf("unknown scenario %q: not a built-in (baseline, 1931, 1954) and not a file", arg)
	}
	return LoadScenario(arg)
}
