package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/output"
)

var (
	tabularFilter       recordFilter
	tabularTransactions []string
)

var tabularCmd = &cobra.Command{
	Use:   "tabular",
	Short: "ARTA tabular report tables",
	Long: `Print the tables of the ARTA tabular report: consolidated SQD results,
external services with response rates, client type breakdown, demographic
distribution, service utilisation and campus comparison.

Response rates need the number of transactions each office served. Offices
without --transactions use their response count.

Example:
  artawatch tabular --transactions HR=120 --transactions Registrar=340`,
	Args: cobra.NoArgs,
	RunE: runTabular,
}

func init() {
	tabularCmd.Flags().StringArrayVar(&tabularTransactions, "transactions", nil, "office=N transactions served (repeatable)")
	tabularFilter.register(tabularCmd)
	rootCmd.AddCommand(tabularCmd)
}

// parseTransactions reads office=N pairs.
func parseTransactions(pairs []string) (map[string]int, error) {
	kv, err := parseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(kv))
	for office, v := range kv {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("transactions for %s must be a non-negative number, got %q", office, v)
		}
		out[office] = n
	}
	return out, nil
}

func runTabular(cmd *cobra.Command, args []string) error {
	transactions, err := parseTransactions(tabularTransactions)
	if err != nil {
		return err
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(tabularFilter)
	if err != nil {
		return err
	}
	report := analyzer.Tabulate(records, transactions)

	if flagJSON {
		return printJSON(report)
	}

	fmt.Println(output.Section(tabularFilter.heading("Consolidated SQD Results")))
	fmt.Println()
	tbl := output.NewTable("Dimension", "Description", "SA", "A", "Positive", "%").AlignRight(2, 3, 4, 5)
	for _, r := range report.Consolidated {
		tbl.AddRow(r.Dimension, r.Description,
			strconv.Itoa(r.StronglyAgree), strconv.Itoa(r.Agree),
			strconv.Itoa(r.TotalPositive), r.PositivePercentage)
	}
	tbl.Print()

	fmt.Println(output.Section("External Services"))
	fmt.Println()
	tbl = output.NewTable("Office", "Transactions", "Responses", "Response Rate", "Mean Rating").AlignRight(1, 2, 3, 4)
	for _, r := range report.ExternalServices {
		tbl.AddRow(r.Office, strconv.Itoa(r.TotalTransactions), strconv.Itoa(r.TotalResponses),
			r.ResponseRate+"%", r.MeanRating)
	}
	tbl.Print()

	fmt.Println(output.Section("Client Types"))
	fmt.Println()
	tbl = output.NewTable("Customer Type", "Clients", "%", "Avg SQD1-8").AlignRight(1, 2, 3)
	for _, r := range report.ClientTypes {
		tbl.AddRow(r.CustomerType, strconv.Itoa(r.Clients), r.Percentage, r.AvgSQD)
	}
	tbl.Print()

	fmt.Println(output.Section("Demographic Distribution"))
	fmt.Println()
	tbl = output.NewTable("Category", "Value", "Count", "%", "Avg Satisfaction").AlignRight(2, 3, 4)
	for _, rows := range [][]analyzer.DistributionRow{report.Demographics.AgeGroup, report.Demographics.Sex} {
		for _, r := range rows {
			tbl.AddRow(r.Category, r.Value, strconv.Itoa(r.Count), r.Percentage, r.AvgSatisfaction)
		}
	}
	tbl.Print()

	fmt.Println(output.Section("Service Utilisation"))
	fmt.Println()
	tbl = output.NewTable("Service", "Frequency", "%", "Avg Satisfaction").AlignRight(1, 2, 3)
	for _, r := range report.ServiceUtilization {
		tbl.AddRow(r.Service, strconv.Itoa(r.Frequency), r.Percentage, r.AvgSatisfaction)
	}
	tbl.Print()

	fmt.Println(output.Section("Campus Comparison"))
	fmt.Println()
	tbl = output.NewTable("Campus", "Responses", "Awareness %", "Visibility %", "Helpfulness %", "Avg SQD").AlignRight(1, 2, 3, 4, 5)
	for _, r := range report.Campuses {
		tbl.AddRow(r.Campus, strconv.Itoa(r.TotalResponses), r.AwarenessRate,
			r.VisibilityScore, r.HelpfulnessRate, r.AvgSQDRating)
	}
	tbl.Print()
	return nil
}
