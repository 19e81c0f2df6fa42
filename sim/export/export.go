// Package export writes completed runs into the formats the downstream
// reporting pipeline consumes: per-step trajectory CSV (optionally gzipped)
// and per-scenario JSON summaries.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/Alane0307/SD-Flood-Relief/sim"
)

// trajectoryHeader lists the per-step CSV columns: time, then per tier the
// stocks and headline flows the reporting notebooks plot.
func trajectoryHeader() []string {
	cols := []string{"step", "time"}
	for _, tier := range sim.TierOrder {
		t := tier.String()
		cols = append(cols,
			t+"_collected_funds", t+"_warehouse_goods", t+"_in_transit",
			t+"_received_goods", t+"_outstanding_need", t+"_active_projects",
			t+"_media_attention", t+"_appeal_pressure",
			t+"_dispatch", t+"_arrival", t+"_disburse", t+"_leak",
		)
	}
	cols = append(cols, "evacuation", "cum_collected", "cum_delivered", "cum_leakage", "cum_hazard")
	return cols
}

// WriteTrajectoryCSV streams the full trajectory as CSV.
func WriteTrajectoryCSV(w io.Writer, traj *sim.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader()); err != nil {
		return fmt.Errorf("writing trajectory header: %w", err)
	}
	row := make([]string, 0, len(trajectoryHeader()))
	for i := range traj.Snapshots {
		snap := traj.At(i)
		row = row[:0]
		row = append(row, strconv.Itoa(snap.Step), formatF(snap.Time))
		for _, tier := range sim.TierOrder {
			st := &snap.States[tier]
			f := &snap.Flows[tier]
			row = append(row,
				formatF(st.CollectedFunds), formatF(st.WarehouseGoods), formatF(st.TotalInTransit()),
				formatF(st.ReceivedGoods), formatF(st.OutstandingNeed), formatF(st.ActiveProjects),
				formatF(st.MediaAttention), formatF(st.AppealPressure),
				formatF(f.DispatchTotal()), formatF(f.ArrivalTotal()), formatF(f.Disburse),
				formatF(f.WarehouseLeak+f.TransitLeakTotal()),
			)
		}
		row = append(row, formatF(snap.Evacuation),
			formatF(snap.CumCollected), formatF(snap.CumDelivered),
			formatF(snap.CumLeakage), formatF(snap.CumHazard))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing trajectory row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrajectoryFile writes the trajectory CSV to path, gzip-compressing
// when the path ends in .gz. Large calibration sweeps archive hundreds of
// trajectories, so the compressed form is the default in the CLI.
func WriteTrajectoryFile(path string, traj *sim.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	return WriteTrajectoryCSV(w, traj)
}

// summaryRecord is the JSON shape of one scenario's metrics. Undefined
// metrics serialize as null so downstream tooling cannot mistake them for
// zeros.
type summaryRecord struct {
	Scenario           string              `json:"scenario"`
	SE                 *float64            `json:"structural_efficiency"`
	RE                 *float64            `json:"relief_efficiency"`
	LeakageRatio       *float64            `json:"leakage_ratio"`
	TimeToCoverage     map[string]*float64 `json:"time_to_coverage_days"`
	ResponseTime       map[string]*float64 `json:"response_time_days"`
	MedianResponseTime *float64            `json:"median_response_time_days"`
	CumCollected       float64             `json:"cum_collected"`
	CumDelivered       float64             `json:"cum_delivered"`
	CumLeakage         float64             `json:"cum_leakage"`
	CumHazard          float64             `json:"cum_hazard"`
	FinalUnmetNeed     float64             `json:"final_unmet_need"`
}

func nullable(m sim.MetricValue) *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// WriteSummaryJSON writes one or more scenario summaries as an indented
// JSON array.
func WriteSummaryJSON(w io.Writer, summaries ...*sim.MetricsSummary) error {
	records := make([]summaryRecord, 0, len(summaries))
	for _, m := range summaries {
		rec := summaryRecord{
			Scenario:           m.Scenario,
			SE:                 nullable(m.SE),
			RE:                 nullable(m.RE),
			LeakageRatio:       nullable(m.LeakageRatio),
			TimeToCoverage:     map[string]*float64{},
			ResponseTime:       map[string]*float64{},
			MedianResponseTime: nullable(m.MedianResponseTime),
			CumCollected:       m.CumCollected,
			CumDelivered:       m.CumDelivered,
			CumLeakage:         m.CumLeakage,
			CumHazard:          m.CumHazard,
			FinalUnmetNeed:     m.FinalUnmetNeed,
		}
		for i, label := range []string{"25", "50", "80"} {
			rec.TimeToCoverage[label] = nullable(m.TimeToCoverage[i])
		}
		for _, tier := range sim.TierOrder {
			rec.ResponseTime[tier.String()] = nullable(m.ResponseTime[tier])
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
