// Package sim provides the core stock-and-flow simulation engine for the
// four-tier flood-relief model.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: TierState, the stock vector one administrative tier carries
//   - flows.go: the pure flow evaluator (collection, procurement, the
//     three-way-minimum dispatch policy, first-order delays, leakage,
//     work relief, media dynamics) and the Euler apply step
//   - simulator.go: the fixed-step integrator and the top-down Z→P→C→V
//     cascade contract
//
// # Architecture
//
// The sim package is the deterministic core; supporting concerns live in
// sub-packages:
//   - sim/forcing/: exogenous-series builders (constant, pulse, CSV, noise)
//   - sim/export/: trajectory and summary writers (CSV, gzip, JSON)
//   - sim/store/: SQLite archive of completed runs
//
// A run is Parameters → NewSimulator → Run → Trajectory → ComputeMetrics.
// Parameters are immutable once validated; the Trajectory is append-only
// during the run and owned by the caller afterwards. Runs share no state,
// so an external calibrator can evaluate many parameter sets in parallel
// and rely on bit-identical replay.
//
// # Error taxonomy
//
// errors.go defines the sentinels: ErrInvalidParameter and
// ErrMissingExogenousData are fatal at construction, ErrNegativeStock is an
// internal-consistency assertion (a failed run returns no trajectory), and
// zero-denominator metrics come back as explicit undefined values rather
// than errors.
package sim
