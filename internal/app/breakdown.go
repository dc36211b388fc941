package app

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/output"
)

var (
	breakdownFilter recordFilter
	breakdownDetail bool
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <campus|office|client-type|sex|age-group>",
	Short: "Per campus, office or demographic metrics",
	Long: `Score each value of one field: response count, share, overall service
quality score and interpretation. With --detail, each group also gets its
client type, sex and age distributions, charter answers and top services.`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

func init() {
	breakdownCmd.Flags().BoolVar(&breakdownDetail, "detail", false, "Show the full metrics of every group")
	breakdownFilter.register(breakdownCmd)
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	field, err := analyzer.ParseField(args[0])
	if err != nil {
		return err
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(breakdownFilter)
	if err != nil {
		return err
	}
	rows := analyzer.DemographicBreakdown(records, field)
	var groups []analyzer.GroupMetrics
	if breakdownDetail || flagJSON {
		groups = analyzer.AnalyzeGroups(records, field, ws.cfg.TopServices)
	}

	if flagJSON {
		return printJSON(map[string]any{
			"field":  field,
			"rows":   rows,
			"groups": groups,
		})
	}

	fmt.Println(output.Section(breakdownFilter.heading("Breakdown by " + field.Label())))
	fmt.Println()
	if len(rows) == 0 {
		fmt.Println(" No records.")
		return nil
	}
	tbl := output.NewTable(field.Label(), "Responses", "Share", "Overall SQD", "Interpretation").AlignRight(1, 2, 3)
	for _, r := range rows {
		tbl.AddRow(
			r.Value,
			fmt.Sprintf("%d", r.Count),
			fmt.Sprintf("%.1f%%", r.Percentage),
			fmt.Sprintf("%.1f%%", r.OverallSQDScore),
			output.Level(r.Level),
		)
	}
	tbl.Print()

	for _, g := range groups {
		renderGroup(g)
	}
	return nil
}

func renderGroup(g analyzer.GroupMetrics) {
	fmt.Println(output.Section(fmt.Sprintf("%s: %s (%d)", g.Field.Label(), g.Key, g.TotalResponses)))
	fmt.Println()
	renderDistribution("Client Type", g.ClientTypeDistribution)
	renderDistribution("Sex", g.SexDistribution)
	renderDistribution("Age Group", g.AgeGroupDistribution)
	if g.Field != analyzer.FieldOffice {
		renderDistribution("Office", g.OfficeDistribution)
	}
	renderBuckets("CC1 Awareness", g.Charter.CC1)
	renderBuckets("CC2 Visibility", g.Charter.CC2)
	renderBuckets("CC3 Helpfulness", g.Charter.CC3)

	if len(g.TopServices) > 0 {
		fmt.Printf(" %s\n", output.StyleBold.Render("Top Services"))
		for i, s := range g.TopServices {
			fmt.Printf("   %2d. %-40s %d\n", i+1, s.Service, s.Count)
		}
		fmt.Println()
	}
}

// renderDistribution prints counts largest first, ties by name.
func renderDistribution(title string, d analyzer.Distribution) {
	if len(d) == 0 {
		return
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if d[keys[i]] != d[keys[j]] {
			return d[keys[i]] > d[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Printf(" %s\n", output.StyleBold.Render(title))
	for _, k := range keys {
		fmt.Printf("   %-28s %5d\n", k, d[k])
	}
	fmt.Println()
}
