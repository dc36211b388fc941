package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/store"
	"github.com/blackwell-systems/artawatch/internal/suggest"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	trackCompare int
	trackHistory int
	trackFilter  recordFilter
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot and compare headline metrics over time",
	Long: `Compute the headline metrics, store them as a new snapshot, and compare
against a previous snapshot with trend arrows. Recommendations are stored with
the snapshot; open ones that are no longer produced are marked resolved.`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	trackFilter.register(trackCmd)
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()
	db := ws.db

	// --history only reads stored snapshots.
	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(db, trackHistory)
		}
		return renderHistory(db, trackHistory)
	}

	records, err := ws.records(trackFilter)
	if err != nil {
		return err
	}
	th := thresholdsFrom(ws.cfg)

	current := &store.Snapshot{
		Command: "track",
		Version: appVersion,
		Records: len(records),
		Scope:   trackFilter.scope(),
	}
	metrics := aggregateMetrics(buildAggregateMetrics(records, th.Problem))
	if err := db.SaveSnapshot(current, metrics); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	suggestions := recommendations(records, th)
	resolved, err := db.ReconcileSuggestions(current.ID, storedSuggestions(suggestions))
	if err != nil {
		return fmt.Errorf("storing suggestions: %w", err)
	}
	logger.Info("snapshot recorded",
		zap.Int64("snapshot", current.ID),
		zap.Int("records", len(records)),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("resolved", resolved),
	)

	// The new snapshot is now the latest, so --compare 1 is the 2nd most recent.
	prev, err := db.NthSnapshot(trackCompare + 1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	var diff *store.Comparison
	if prev != nil {
		prevMetrics, err := db.Metrics(prev.ID)
		if err != nil {
			return fmt.Errorf("loading previous metrics: %w", err)
		}
		diff = &store.Comparison{
			Previous: prev,
			Current:  current,
			Deltas:   computeDeltas(prevMetrics, metrics),
		}
	}

	if flagJSON {
		return printJSON(struct {
			Snapshot *store.Snapshot   `json:"snapshot"`
			Resolved int               `json:"resolved"`
			Diff     *store.Comparison `json:"diff,omitempty"`
		}{current, resolved, diff})
	}

	renderTrackOutput(current, diff, resolved)
	return nil
}

// buildAggregateMetrics produces the headline metrics stored with a snapshot.
func buildAggregateMetrics(records []survey.Record, threshold float64) map[string]float64 {
	s := analyzer.Summarize(records, threshold)
	m := map[string]float64{
		"total_responses": float64(s.TotalResponses),
		"cc1_awareness":   s.Awareness,
		"cc2_visibility":  s.Visibility,
		"cc3_helpfulness": s.Helpfulness,
		"overall_sqd":     s.OverallSQD,
	}
	scores := analyzer.DimensionScores(records)
	for _, d := range survey.Dimensions {
		m[d.Key()] = scores[d]
	}

	dissatisfied := 0
	for _, r := range records {
		if analyzer.HasDissatisfaction(r) {
			dissatisfied++
		}
	}
	rate := 0.0
	if len(records) > 0 {
		rate = float64(dissatisfied) / float64(len(records)) * 100
	}
	m["dissatisfaction_rate"] = rate
	return m
}

// aggregateMetrics lays m out in metricDisplayOrder.
func aggregateMetrics(m map[string]float64) []store.AggregateMetric {
	out := make([]store.AggregateMetric, 0, len(metricDisplayOrder))
	for _, name := range metricDisplayOrder {
		out = append(out, store.AggregateMetric{MetricName: name, MetricValue: m[name]})
	}
	return out
}

func storedSuggestions(suggestions []suggest.Suggestion) []store.Suggestion {
	out := make([]store.Suggestion, len(suggestions))
	for i, s := range suggestions {
		out[i] = store.Suggestion{
			Category:    s.Category,
			Priority:    s.Priority,
			Title:       s.Title,
			Description: s.Description,
			ImpactScore: s.ImpactScore,
		}
	}
	return out
}

// lowerIsBetter lists the metrics where a drop is an improvement.
var lowerIsBetter = map[string]bool{
	"dissatisfaction_rate": true,
}

func higherIsBetter(name string) bool {
	return !lowerIsBetter[name]
}

// computeDeltas compares curr against prev metric by metric, in curr's
// order. A metric missing from prev counts from zero.
func computeDeltas(prev, curr []store.AggregateMetric) []store.MetricDelta {
	before := make(map[string]float64, len(prev))
	for _, m := range prev {
		before[m.MetricName] = m.MetricValue
	}

	deltas := make([]store.MetricDelta, 0, len(curr))
	for _, m := range curr {
		d := store.MetricDelta{
			Name:      m.MetricName,
			Previous:  before[m.MetricName],
			Current:   m.MetricValue,
			Direction: "unchanged",
		}
		d.Delta = d.Current - d.Previous
		switch {
		case d.Delta == 0:
		case (d.Delta > 0) == higherIsBetter(d.Name):
			d.Direction = "improved"
		default:
			d.Direction = "regressed"
		}
		deltas = append(deltas, d)
	}
	return deltas
}

func renderTrackOutput(current *store.Snapshot, diff *store.Comparison, resolved int) {
	fmt.Println(output.Section("Track: Snapshot Comparison"))
	fmt.Println()
	fmt.Printf(" Snapshot #%d taken at %s (%d records", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"), current.Records)
	if current.Scope != "" {
		fmt.Printf(", %s", current.Scope)
	}
	fmt.Println(")")
	if resolved > 0 {
		fmt.Printf(" %s %d recommendation(s) no longer apply and were resolved\n", output.StyleSuccess.Render("✓"), resolved)
	}
	fmt.Println()

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'artawatch track' again after encoding more responses to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		tbl.AddRow(
			metricShortName(d.Name),
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter(d.Name)),
		)
	}
	tbl.Print()
}

// metricDisplayOrder defines the order metrics are stored and shown.
var metricDisplayOrder = []string{
	"total_responses",
	"cc1_awareness",
	"cc2_visibility",
	"cc3_helpfulness",
	"overall_sqd",
	"sqd0", "sqd1", "sqd2", "sqd3", "sqd4", "sqd5", "sqd6", "sqd7", "sqd8",
	"dissatisfaction_rate",
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		"total_responses":      "Responses",
		"cc1_awareness":        "CC1 Awareness %",
		"cc2_visibility":       "CC2 Visibility %",
		"cc3_helpfulness":      "CC3 Helpfulness %",
		"overall_sqd":          "Overall SQD %",
		"dissatisfaction_rate": "Dissatisfied %",
	}
	if s, ok := short[name]; ok {
		return s
	}
	if d, ok := survey.ParseDimension(name); ok {
		return d.Code() + " " + d.Name() + " %"
	}
	return name
}

// historyEntry is one snapshot with its metrics.
type historyEntry struct {
	Snapshot store.Snapshot          `json:"snapshot"`
	Metrics  []store.AggregateMetric `json:"metrics"`
}

// value returns the named metric, or 0 when the snapshot predates it.
func (h historyEntry) value(name string) float64 {
	for _, m := range h.Metrics {
		if m.MetricName == name {
			return m.MetricValue
		}
	}
	return 0
}

// loadHistory returns the n latest snapshots, oldest first.
func loadHistory(db *store.DB, n int) ([]historyEntry, error) {
	snapshots, err := db.RecentSnapshots(n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	entries := make([]historyEntry, 0, len(snapshots))
	for _, s := range snapshots {
		metrics, err := db.Metrics(s.ID)
		if err != nil {
			return nil, fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, historyEntry{Snapshot: s, Metrics: metrics})
	}
	return entries, nil
}

// renderHistory shows one column per snapshot and the trend from the oldest
// to the newest.
func renderHistory(db *store.DB, n int) error {
	timeline, err := loadHistory(db, n)
	if err != nil {
		return err
	}
	if len(timeline) == 0 {
		fmt.Println(" No snapshots found. Run 'artawatch track' to create one.")
		return nil
	}

	fmt.Println(output.Section("Track: Metric History"))
	fmt.Println()
	fmt.Printf(" Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	for _, h := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", h.Snapshot.ID, h.Snapshot.TakenAt.Format("Jan 02")))
	}
	tbl := output.NewTable(append(headers, "Trend")...)

	first, last := timeline[0], timeline[len(timeline)-1]
	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		for _, h := range timeline {
			row = append(row, fmt.Sprintf("%.1f", h.value(name)))
		}
		trend := ""
		if len(timeline) > 1 {
			trend = output.TrendArrow(last.value(name)-first.value(name), higherIsBetter(name))
		}
		tbl.AddRow(append(row, trend)...)
	}
	tbl.Print()
	return nil
}

func outputHistoryJSON(db *store.DB, n int) error {
	timeline, err := loadHistory(db, n)
	if err != nil {
		return err
	}
	return printJSON(timeline)
}
