package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/config"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/suggest"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	recommendLimit    int
	recommendCategory string
	recommendFilter   recordFilter
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"suggest"},
	Short:   "Ranked improvement recommendations",
	Long: `Turn the charter scores, service quality dimensions and office results
into actionable recommendations. Recommendations are scored by impact and
sorted from highest to lowest.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 10, "Maximum number of recommendations to show")
	recommendCmd.Flags().StringVar(&recommendCategory, "category", "", "Filter by category (charter, service_quality, office)")
	recommendFilter.register(recommendCmd)
	rootCmd.AddCommand(recommendCmd)
}

// thresholdsFrom maps config values onto rule thresholds.
func thresholdsFrom(cfg *config.Config) suggest.Thresholds {
	th := suggest.DefaultThresholds
	if cfg.ProblemThreshold > 0 {
		th.Problem = cfg.ProblemThreshold
	}
	if cfg.LowOfficeMinResponses > 0 {
		th.LowOfficeMinResponses = cfg.LowOfficeMinResponses
	}
	if cfg.DissatisfactionAlert > 0 {
		th.DissatisfactionAlert = cfg.DissatisfactionAlert
	}
	return th
}

// recommendations runs every rule over records.
func recommendations(records []survey.Record, th suggest.Thresholds) []suggest.Suggestion {
	return suggest.NewEngine().Run(suggest.BuildContext(records, th))
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(recommendFilter)
	if err != nil {
		return err
	}
	top := suggest.Top(recommendations(records, thresholdsFrom(ws.cfg)), recommendCategory, recommendLimit)
	if flagJSON {
		return printJSON(top)
	}

	fmt.Println(output.Section(recommendFilter.heading("Recommendations")))
	fmt.Println()
	switch {
	case len(records) == 0:
		fmt.Println(" No records to analyze.")
	case len(top) == 0:
		fmt.Println(" No recommendations. Every area is above its threshold.")
	}
	for i, s := range top {
		printSuggestion(i+1, s)
	}
	return nil
}

func printSuggestion(rank int, s suggest.Suggestion) {
	label := priorityStyle(s.Priority).Render("[" + suggest.PriorityLabel(s.Priority) + "]")
	fmt.Printf(" #%d %s %s\n", rank, label, output.StyleBold.Render(s.Title))
	fmt.Printf("    %s  %s\n",
		output.StyleMuted.Render(fmt.Sprintf("impact %.1f", s.ImpactScore)),
		output.StyleMuted.Render(s.Category))
	fmt.Printf("    %s\n\n", s.Description)
}

func priorityStyle(priority int) lipgloss.Style {
	switch priority {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return output.StyleError
	case suggest.PriorityMedium:
		return output.StyleWarning
	}
	return output.StyleMuted
}
