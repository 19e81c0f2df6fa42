// Package forcing builds the exogenous input series a scenario needs:
// hazard inflow, food price, and news volume. Builders cover the analytic
// shapes used in experiments (constant, pulse, ramp), CSV ingestion for
// calibrated historical series, and a seeded smooth-noise hazard for
// sensitivity studies. Every builder is deterministic for fixed arguments.
package forcing

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Alane0307/SD-Flood-Relief/sim"
)

// Constant returns a series holding one value over any horizon.
func Constant(name string, value float64) sim.Series {
	return sim.ConstantSeries(name, value)
}

// Pulse returns a series that sits at base, jumps to peak for the steps in
// [start, start+duration), and falls back to base, held thereafter. This is
// the canonical flood-wave shape for response-time experiments.
func Pulse(name string, steps, start, duration int, base, peak float64) sim.Series {
	values := make([]float64, steps)
	for i := range values {
		if i >= start && i < start+duration {
			values[i] = peak
		} else {
			values[i] = base
		}
	}
	s := sim.NewSeries(name, values)
	s.HoldLast = true
	return s
}

// Ramp returns a series rising linearly from start to end over the given
// number of steps, held at end thereafter.
func Ramp(name string, steps int, start, end float64) sim.Series {
	values := make([]float64, steps)
	for i := range values {
		frac := 0.0
		if steps > 1 {
			frac = float64(i) / float64(steps-1)
		}
		values[i] = start + (end-start)*frac
	}
	s := sim.NewSeries(name, values)
	s.HoldLast = true
	return s
}

// FloodWave returns a smooth synthetic hazard series: opensimplex noise
// around a base level, scaled by amplitude, sampled at the given frequency
// (cycles per step). The same seed always yields the same wave, so
// experiment runs stay replayable. Values are clamped at zero.
func FloodWave(name string, seed int64, steps int, base, amplitude, frequency float64) sim.Series {
	noise := opensimplex.NewNormalized(seed)
	values := make([]float64, steps)
	for i := range values {
		x := float64(i) * frequency
		values[i] = math.Max(0, base+amplitude*(2*noise.Eval2(x, 0)-1))
	}
	s := sim.NewSeries(name, values)
	s.HoldLast = true
	return s
}

// FromCSV loads a series from a two-column CSV file (step index, value) with
// an optional header row. Rows must be in step order starting at zero; the
// loaded series is marked hold-last, matching how calibrated archival series
// extend past their last observation.
func FromCSV(name, path string) (sim.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return sim.Series{}, fmt.Errorf("opening series %q: %w", name, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return sim.Series{}, fmt.Errorf("reading series %q: %w", name, err)
	}
	var values []float64
	for i, row := range rows {
		if len(row) < 2 {
			return sim.Series{}, fmt.Errorf("series %q row %d: want 2 columns, got %d", name, i, len(row))
		}
		step, err := strconv.Atoi(row[0])
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return sim.Series{}, fmt.Errorf("series %q row %d: bad step index %q", name, i, row[0])
		}
		if step != len(values) {
			return sim.Series{}, fmt.Errorf("series %q row %d: step %d out of order (expected %d)", name, i, step, len(values))
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return sim.Series{}, fmt.Errorf("series %q row %d: bad value %q", name, i, row[1])
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return sim.Series{}, fmt.Errorf("%w: series %q: no data rows in %s", sim.ErrMissingExogenousData, name, path)
	}
	s := sim.NewSeries(name, values)
	s.HoldLast = true
	return s, nil
}
