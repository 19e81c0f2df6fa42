package sim

import "errors"

// Error taxonomy for the simulator. All errors surface synchronously from the
// constructor or Run; the engine never retries and a failed run yields no
// partial trajectory.
var (
	// ErrInvalidParameter signals a scenario coefficient that is missing,
	// non-finite, or outside its declared domain. Raised at Parameters
	// validation time and fatal to the run.
	ErrInvalidParameter = errors.New("invalid scenario parameter")

	// ErrMissingExogenousData signals an exogenous series that does not
	// cover the simulated horizon and is not marked for hold-last
	// extrapolation. Fatal at simulator construction.
	ErrMissingExogenousData = errors.New("exogenous series does not cover horizon")

	// ErrZeroDenominator marks a metric whose denominator is zero over the
	// requested window. Callers must treat the metric as "not yet
	// meaningful" rather than zero or infinity.
	ErrZeroDenominator = errors.New("metric denominator is zero over window")

	// ErrNegativeStock is an internal-consistency assertion. The flow
	// clamps make it unreachable for any valid step size; seeing it means
	// a defect in the clamping logic or a step size too coarse for the
	// configured delay constants, not a recoverable runtime condition.
	ErrNegativeStock = errors.New("stock driven negative")
)
