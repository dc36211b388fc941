package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	dissatFilter       recordFilter
	dissatComments     bool
	dissatDemographics bool
	dissatTrends       bool
)

var dissatisfactionCmd = &cobra.Command{
	Use:     "dissatisfaction",
	Aliases: []string{"dissat"},
	Short:   "Negative ratings, charter issues and comments",
	Long: `Report where clients were dissatisfied: the overall rate, negative and
neutral answers per SQD dimension, offices ordered by service quality, charter
visibility and helpfulness issues, and optionally comments, demographic rates
and the daily trend.

A response is dissatisfied when any SQD dimension is rated SD or D.`,
	Args: cobra.NoArgs,
	RunE: runDissatisfaction,
}

func init() {
	dissatisfactionCmd.Flags().BoolVar(&dissatComments, "comments", false, "List comments, dissatisfied clients first")
	dissatisfactionCmd.Flags().BoolVar(&dissatDemographics, "demographics", false, "Show dissatisfaction rates by age group, sex and client type")
	dissatisfactionCmd.Flags().BoolVar(&dissatTrends, "trends", false, "Show the dissatisfaction rate per day")
	dissatFilter.register(dissatisfactionCmd)
	rootCmd.AddCommand(dissatisfactionCmd)
}

// dissatisfactionReport is the JSON form of the report.
type dissatisfactionReport struct {
	Summary      analyzer.DissatisfactionSummary           `json:"summary"`
	Dimensions   []analyzer.DimensionDissatisfactionRow    `json:"dimension_analysis"`
	Offices      []analyzer.OfficeDissatisfactionRow       `json:"office_analysis"`
	Charter      []analyzer.CharterIssue                   `json:"charter_issues"`
	Comments     []analyzer.Comment                        `json:"comments"`
	Demographics analyzer.DemographicDissatisfactionReport `json:"demographic_analysis"`
	Trends       []analyzer.TrendPoint                     `json:"trends"`
}

func buildDissatisfaction(records []survey.Record) dissatisfactionReport {
	return dissatisfactionReport{
		Summary:      analyzer.SummarizeDissatisfaction(records),
		Dimensions:   analyzer.DimensionDissatisfaction(records),
		Offices:      analyzer.OfficeDissatisfaction(records),
		Charter:      analyzer.CharterIssues(records),
		Comments:     analyzer.Comments(records),
		Demographics: analyzer.DemographicDissatisfaction(records),
		Trends:       analyzer.DissatisfactionTrends(records),
	}
}

func runDissatisfaction(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(dissatFilter)
	if err != nil {
		return err
	}
	r := buildDissatisfaction(records)

	if flagJSON {
		return printJSON(r)
	}
	renderDissatisfaction(r, ws.cfg.DissatisfactionAlert)
	return nil
}

func renderDissatisfaction(r dissatisfactionReport, alert float64) {
	s := r.Summary
	fmt.Println(output.Section(dissatFilter.heading("Dissatisfaction Summary")))
	fmt.Println()
	fmt.Println(output.KeyValue("Responses", strconv.Itoa(s.TotalResponses)))
	fmt.Println(output.KeyValue("Dissatisfied", fmt.Sprintf("%d (%s%%)", s.TotalDissatisfied, s.DissatisfactionRate)))
	fmt.Println(output.KeyValue("Negative ratings", strconv.Itoa(s.TotalNegativeRatings)))
	fmt.Println(output.KeyValue("Neutral ratings", strconv.Itoa(s.TotalNeutralRatings)))
	fmt.Println(output.KeyValue("Worst dimension", s.MostProblematicDimension))
	fmt.Println(output.KeyValue("Most issues", s.OfficeWithMostIssues))
	if s.TotalResponses == 0 {
		return
	}

	fmt.Println(output.Section("Dimensions"))
	fmt.Println()
	tbl := output.NewTable("Code", "Dimension", "SD", "D", "ND", "A", "SA", "Negative %", "Favorable", "Interpretation")
	for _, d := range r.Dimensions {
		tbl.AddRow(d.Dimension, d.Name,
			strconv.Itoa(d.StronglyDisagree), strconv.Itoa(d.Disagree), strconv.Itoa(d.Neither),
			strconv.Itoa(d.Agree), strconv.Itoa(d.StronglyAgree),
			d.NegativePercentage, fmt.Sprintf("%.1f%%", d.FavorableScore), output.Level(d.Level))
	}
	tbl.Print()

	fmt.Println(output.Section("Offices"))
	fmt.Println()
	tbl = output.NewTable("Office", "Campus", "Responses", "Dissatisfied", "Rate %", "Top Issues", "Comments", "Overall SQD")
	for _, o := range r.Offices {
		rate := o.DissatisfactionRate
		if v, err := strconv.ParseFloat(rate, 64); err == nil && v >= alert {
			rate = output.StyleError.Render(rate)
		}
		tbl.AddRow(o.Office, o.Campus, strconv.Itoa(o.TotalResponses), strconv.Itoa(o.DissatisfiedResponses),
			rate, dash(strings.Join(o.TopIssues, ", ")), strconv.Itoa(o.CommentsCount),
			fmt.Sprintf("%.1f%%", o.OverallSQDScore))
	}
	tbl.Print()

	fmt.Println(output.Section("Citizen's Charter Issues"))
	fmt.Println()
	if len(r.Charter) == 0 {
		fmt.Printf(" %s No charter issues reported.\n", output.StyleSuccess.Render("✓"))
	}
	for _, c := range r.Charter {
		fmt.Printf(" %s %s: %s\n", output.StyleWarning.Render("!"), c.Category, c.Issue)
		fmt.Printf("     %d response(s), %s%%  offices: %s\n", c.Count, c.Percentage, strings.Join(c.AffectedOffices, ", "))
	}

	if dissatDemographics {
		fmt.Println(output.Section("Dissatisfaction by Demographic"))
		fmt.Println()
		tbl := output.NewTable("Category", "Value", "Responses", "Dissatisfied", "Rate %").AlignRight(2, 3, 4)
		d := r.Demographics
		for _, rows := range [][]analyzer.DemographicDissatisfactionRow{d.ByAgeGroup, d.BySex, d.ByClientType} {
			for _, row := range rows {
				tbl.AddRow(row.Category, row.Value, strconv.Itoa(row.TotalResponses),
					strconv.Itoa(row.DissatisfiedCount), row.DissatisfactionRate)
			}
		}
		tbl.Print()
	}

	if dissatTrends {
		fmt.Println(output.Section("Daily Trend"))
		fmt.Println()
		tbl := output.NewTable("Date", "Responses", "Dissatisfied", "Rate %", "SQD Score").AlignRight(1, 2, 3, 4)
		for _, p := range r.Trends {
			tbl.AddRow(p.Date, strconv.Itoa(p.TotalResponses), strconv.Itoa(p.DissatisfiedResponses),
				p.DissatisfactionRate, fmt.Sprintf("%.1f%%", p.SQDScore))
		}
		tbl.Print()
	}

	if dissatComments {
		fmt.Println(output.Section(fmt.Sprintf("Comments (%d)", len(r.Comments))))
		fmt.Println()
		for _, c := range r.Comments {
			marker := output.StyleMuted.Render("·")
			if c.HasDissatisfaction {
				marker = output.StyleError.Render("✗")
			}
			fmt.Printf(" %s %s  %s / %s\n", marker, shortID(c.ID), dash(c.Office), dash(c.Campus))
			fmt.Printf("     %q\n", c.Comment)
			if len(c.ProblematicDimensions) > 0 {
				fmt.Printf("     %s\n", output.StyleMuted.Render("Negative: "+strings.Join(c.ProblematicDimensions, ", ")))
			}
		}
	}
}
