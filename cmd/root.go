package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Alane0307/SD-Flood-Relief/sim"
	"github.com/Alane0307/SD-Flood-Relief/sim/export"
	"github.com/Alane0307/SD-Flood-Relief/sim/store"
)

var (
	logLevel string // Log verbosity level

	// CLI flags for a single run
	scenarioArg  string  // Built-in scenario label or YAML file path
	horizon      float64 // Simulated horizon in days
	stepSize     float64 // Integration step in days
	windowStart  float64 // Metrics window start (days)
	windowLength float64 // Metrics window length (days, 0 = full horizon)
	trajOut      string  // Trajectory CSV output path (.gz for gzip)
	summaryOut   string  // Metrics summary JSON output path
	storePath    string  // SQLite run-archive path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sd-relief",
	Short: "Stock-and-flow simulator for four-tier flood-relief operations",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env carries local defaults such as SDRELIEF_STORE.
		_ = godotenv.Load()
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runScenario executes one scenario end to end and returns its trajectory
// and metrics.
func runScenario(params *sim.Parameters) (*sim.Trajectory, *sim.MetricsSummary, error) {
	s, err := sim.NewSimulator(params, horizon, stepSize)
	if err != nil {
		return nil, nil, err
	}
	traj, err := s.Run()
	if err != nil {
		return nil, nil, err
	}
	summary, err := sim.ComputeMetrics(traj, sim.Window{Start: windowStart, Length: windowLength})
	if err != nil {
		return nil, nil, err
	}
	return traj, summary, nil
}

// archiveRun saves a completed run when a store path is configured, either
// via --store or the SDRELIEF_STORE environment variable.
func archiveRun(traj *sim.Trajectory, summary *sim.MetricsSummary) error {
	path := storePath
	if path == "" {
		path = os.Getenv("SDRELIEF_STORE")
	}
	if path == "" {
		return nil
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	id, err := st.SaveRun(traj, summary)
	if err != nil {
		return err
	}
	logrus.Infof("[archive] saved run %s to %s", id, path)
	return nil
}

// runCmd executes one scenario and prints its metrics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one relief scenario and report its metrics",
	Run: func(cmd *cobra.Command, args []string) {
		params, err := resolveScenario(scenarioArg)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		traj, summary, err := runScenario(params)
		if err != nil {
			logrus.Fatalf("running scenario %s: %v", params.Scenario, err)
		}
		summary.Print()

		if trajOut != "" {
			if err := export.WriteTrajectoryFile(trajOut, traj); err != nil {
				logrus.Fatalf("writing trajectory: %v", err)
			}
			logrus.Infof("[export] trajectory written to %s", trajOut)
		}
		if summaryOut != "" {
			f, err := os.Create(summaryOut)
			if err != nil {
				logrus.Fatalf("creating summary file: %v", err)
			}
			defer f.Close()
			if err := export.WriteSummaryJSON(f, summary); err != nil {
				logrus.Fatalf("writing summary: %v", err)
			}
		}
		if err := archiveRun(traj, summary); err != nil {
			logrus.Fatalf("archiving run: %v", err)
		}
	},
}

// compareCmd reproduces the 1931-vs-1954 study: two scenarios under the
// first scenario's hazard input, side by side.
var compareCmd = &cobra.Command{
	Use:   "compare [scenarioA] [scenarioB]",
	Short: "Run two scenarios under identical hazard and compare metrics",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		labels := []string{"1931", "1954"}
		copy(labels, args)

		a, err := resolveScenario(labels[0])
		if err != nil {
			logrus.Fatalf("loading scenario %q: %v", labels[0], err)
		}
		b, err := resolveScenario(labels[1])
		if err != nil {
			logrus.Fatalf("loading scenario %q: %v", labels[1], err)
		}
		// Identical hazard is what makes the comparison structural.
		b.Hazard = a.Hazard

		var summaries []*sim.MetricsSummary
		for _, params := range []*sim.Parameters{a, b} {
			traj, summary, err := runScenario(params)
			if err != nil {
				logrus.Fatalf("running scenario %s: %v", params.Scenario, err)
			}
			summaries = append(summaries, summary)
			if err := archiveRun(traj, summary); err != nil {
				logrus.Fatalf("archiving run: %v", err)
			}
		}

		fmt.Printf("%-28s %14s %14s\n", "metric", summaries[0].Scenario, summaries[1].Scenario)
		printRow := func(name string, va, vb sim.MetricValue) {
			fmt.Printf("%-28s %14s %14s\n", name, va, vb)
		}
		printRow("structural efficiency SE", summaries[0].SE, summaries[1].SE)
		printRow("relief efficiency RE", summaries[0].RE, summaries[1].RE)
		printRow("leakage ratio", summaries[0].LeakageRatio, summaries[1].LeakageRatio)
		printRow("median response (days)", summaries[0].MedianResponseTime, summaries[1].MedianResponseTime)
		for i, frac := range []int{25, 50, 80} {
			printRow(fmt.Sprintf("time to %d%% coverage (days)", frac),
				summaries[0].TimeToCoverage[i], summaries[1].TimeToCoverage[i])
		}
		if summaryOut != "" {
			f, err := os.Create(summaryOut)
			if err != nil {
				logrus.Fatalf("creating summary file: %v", err)
			}
			defer f.Close()
			if err := export.WriteSummaryJSON(f, summaries...); err != nil {
				logrus.Fatalf("writing summary: %v", err)
			}
		}
	},
}

// runsCmd lists the archived runs in the store
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs archived in the store",
	Run: func(cmd *cobra.Command, args []string) {
		path := storePath
		if path == "" {
			path = os.Getenv("SDRELIEF_STORE")
		}
		if path == "" {
			logrus.Fatalf("no store configured: pass --store or set SDRELIEF_STORE")
		}
		st, err := store.Open(path)
		if err != nil {
			logrus.Fatalf("opening store: %v", err)
		}
		defer st.Close()
		runs, err := st.ListRuns()
		if err != nil {
			logrus.Fatalf("listing runs: %v", err)
		}
		fmt.Printf("%-36s %-10s %-20s %8s %8s %8s\n", "id", "scenario", "created", "SE", "RE", "leakage")
		for _, r := range runs {
			fmt.Printf("%-36s %-10s %-20s %8s %8s %8s\n",
				r.ID, r.Scenario, r.CreatedAt,
				nullStr(r.SE), nullStr(r.RE), nullStr(r.LeakageRatio))
		}
	},
}

func nullStr(v sql.NullFloat64) string {
	if !v.Valid {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warning", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Float64Var(&horizon, "horizon", 90, "Simulated horizon in days")
	rootCmd.PersistentFlags().Float64Var(&stepSize, "dt", 0.25, "Integration step in days (keep small relative to the shortest delay constant)")
	rootCmd.PersistentFlags().Float64Var(&windowStart, "window-start", 0, "Metrics window start (days)")
	rootCmd.PersistentFlags().Float64Var(&windowLength, "window-length", 0, "Metrics window length (days, 0 = full horizon)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "SQLite run-archive path (default $SDRELIEF_STORE)")
	rootCmd.PersistentFlags().StringVar(&summaryOut, "summary-json", "", "Write the metrics summary as JSON to this path")

	runCmd.Flags().StringVar(&scenarioArg, "scenario", "baseline", "Built-in scenario (baseline, 1931, 1954) or YAML file path")
	runCmd.Flags().StringVar(&trajOut, "out", "", "Write the trajectory CSV to this path (.gz for gzip)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(runsCmd)
}
