package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	reportFilter  recordFilter
	reportDaily   bool
	reportAnswers bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summary scores, charter awareness and office scores",
	Long: `Show the headline report: response counts, Citizen's Charter awareness,
visibility and helpfulness, the overall service quality score, each SQD
dimension with its interpretation, problem areas below the configured
threshold, charter answer distributions and per-office scores.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportDaily, "daily", false, "Include responses and mean ratings per day")
	reportCmd.Flags().BoolVar(&reportAnswers, "answers", false, "Include SQD answer counts per dimension")
	reportFilter.register(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

// reportData is the JSON form of the report.
type reportData struct {
	Scope      string                           `json:"scope,omitempty"`
	Threshold  float64                          `json:"problem_threshold"`
	Summary    analyzer.Summary                 `json:"summary"`
	Charter    analyzer.CharterDistributions    `json:"charter"`
	Offices    []analyzer.OfficeScore           `json:"offices"`
	Answers    []analyzer.DimensionDistribution `json:"sqd_answers,omitempty"`
	TimeSeries []analyzer.TimePoint             `json:"time_series,omitempty"`
}

func buildReport(records []survey.Record, threshold float64, f recordFilter) reportData {
	d := reportData{
		Scope:     f.scope(),
		Threshold: threshold,
		Summary:   analyzer.Summarize(records, threshold),
		Charter:   analyzer.CharterBreakdown(records),
		Offices:   analyzer.OfficeScores(records),
	}
	if reportAnswers {
		d.Answers = analyzer.SQDDistributions(records)
	}
	if reportDaily {
		d.TimeSeries = analyzer.TimeSeries(records)
	}
	return d
}

func runReport(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(reportFilter)
	if err != nil {
		return err
	}
	data := buildReport(records, ws.cfg.ProblemThreshold, reportFilter)

	if flagJSON {
		return printJSON(data)
	}
	renderReport(data)
	return nil
}

func renderReport(d reportData) {
	s := d.Summary
	fmt.Println(output.Section(reportFilter.heading("ARTA Survey Summary")))
	fmt.Println()
	if s.TotalResponses == 0 {
		fmt.Println(" No records. Encode one with 'artawatch add' or load a file with 'artawatch import'.")
		return
	}

	fmt.Println(output.KeyValue("Responses", fmt.Sprintf("%d", s.TotalResponses)))
	fmt.Println(output.KeyValue("Campuses", fmt.Sprintf("%d", s.CampusCount)))
	fmt.Println(output.KeyValue("Offices", fmt.Sprintf("%d", s.OfficeCount)))
	fmt.Println()

	headline := []struct {
		label  string
		score  float64
		level  analyzer.Level
		metric analyzer.Metric
	}{
		{"CC1 Awareness", s.Awareness, s.AwarenessLevel, analyzer.MetricAwareness},
		{"CC2 Visibility", s.Visibility, s.VisibilityLevel, analyzer.MetricVisibility},
		{"CC3 Helpfulness", s.Helpfulness, s.HelpfulnessLevel, analyzer.MetricHelpfulness},
		{"Overall SQD", s.OverallSQD, s.OverallSQDLevel, analyzer.MetricServiceQuality},
	}
	for _, h := range headline {
		fmt.Println(output.KeyValue(h.label, output.ScoreBar(h.score, 20)+"  "+output.Level(h.level)))
		if desc := h.level.Describe(h.metric); desc != "" {
			fmt.Printf(" %24s %s\n", "", output.StyleMuted.Render(desc))
		}
	}

	fmt.Println(output.Section("Service Quality Dimensions"))
	fmt.Println()
	tbl := output.NewTable("Code", "Dimension", "Score", "Interpretation")
	for _, dim := range s.Dimensions {
		tbl.AddRow(dim.Code, dim.Dimension, fmt.Sprintf("%.1f%%", dim.Score), output.Level(dim.Level))
	}
	tbl.Print()

	fmt.Println(output.Section(fmt.Sprintf("Problem Areas (below %.0f%%)", d.Threshold)))
	fmt.Println()
	if len(s.ProblemAreas) == 0 {
		fmt.Printf(" %s No area scores below the threshold.\n", output.StyleSuccess.Render("✓"))
	}
	for _, p := range s.ProblemAreas {
		fmt.Printf(" %s %-32s %s\n", output.StyleError.Render("✗"), p.Area, output.ScoreBar(p.Score, 20))
	}

	fmt.Println(output.Section("Citizen's Charter Answers"))
	fmt.Println()
	renderBuckets("CC1 Awareness", d.Charter.CC1)
	renderBuckets("CC2 Visibility", d.Charter.CC2)
	renderBuckets("CC3 Helpfulness", d.Charter.CC3)

	if len(d.Offices) > 0 {
		fmt.Println(output.Section("Office Scores"))
		fmt.Println()
		tbl := output.NewTable("Office", "Responses", "CC1", "CC2", "CC3", "Overall SQD", "Interpretation")
		for _, o := range d.Offices {
			tbl.AddRow(
				o.Office,
				fmt.Sprintf("%d", o.TotalResponses),
				fmt.Sprintf("%.1f%%", o.CC1Score),
				fmt.Sprintf("%.1f%%", o.CC2Score),
				fmt.Sprintf("%.1f%%", o.CC3Score),
				fmt.Sprintf("%.1f%%", o.OverallSQDScore),
				output.Level(o.OverallSQDLevel),
			)
		}
		tbl.Print()
	}

	if len(d.Answers) > 0 {
		fmt.Println(output.Section("SQD Answers"))
		fmt.Println()
		headers := append([]string{"Dimension"}, survey.RatingOptions...)
		headers = append(headers, "Blank", "Mean")
		tbl := output.NewTable(headers...)
		for _, a := range d.Answers {
			row := []string{a.Dimension}
			for _, code := range survey.RatingOptions {
				row = append(row, fmt.Sprintf("%d", a.Counts[code]))
			}
			row = append(row, fmt.Sprintf("%d", a.Counts[survey.Unknown]), fmt.Sprintf("%.2f", a.Mean))
			tbl.AddRow(row...)
		}
		tbl.Print()
	}

	if len(d.TimeSeries) > 0 {
		fmt.Println(output.Section("Responses per Day"))
		fmt.Println()
		tbl := output.NewTable("Date", "Responses", "Avg CC", "Avg SQD")
		for _, p := range d.TimeSeries {
			tbl.AddRow(p.Date, fmt.Sprintf("%d", p.Responses), fmt.Sprintf("%.2f", p.AvgCC), fmt.Sprintf("%.2f", p.AvgSQD))
		}
		tbl.Print()
	}
}

// renderBuckets prints one charter distribution with its share of answers.
func renderBuckets(title string, b analyzer.Buckets) {
	fmt.Printf(" %s\n", output.StyleBold.Render(title))
	total := b.Total()
	for _, x := range b {
		share := 0.0
		if total > 0 {
			share = float64(x.Count) / float64(total) * 100
		}
		fmt.Printf("   %-28s %5d  %s\n", x.Label, x.Count, output.StyleMuted.Render(fmt.Sprintf("%5.1f%%", share)))
	}
	fmt.Println()
}
