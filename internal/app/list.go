package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/export"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	listLimit  int
	listFilter recordFilter
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List encoded records",
	Long: `List encoded records in the order they were added. Use --limit to show
only the most recently added records.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Show only the N most recently added records (0 = all)")
	listFilter.register(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(listFilter)
	if err != nil {
		return err
	}
	if listLimit > 0 && len(records) > listLimit {
		records = records[len(records)-listLimit:]
	}

	if flagJSON {
		if records == nil {
			records = []survey.Record{}
		}
		return printJSON(records)
	}

	fmt.Println(output.Section(listFilter.heading(fmt.Sprintf("Encoded Records (%d)", len(records)))))
	fmt.Println()
	if len(records) == 0 {
		fmt.Println(" No records. Encode one with 'artawatch add' or load a file with 'artawatch import'.")
		return nil
	}

	tbl := output.NewTable("ID", "Date/Time", "Campus", "Office", "Client", "CC1-3", "SQD0-8")
	for _, r := range records {
		tbl.AddRow(
			shortID(r.ID),
			export.DisplayTime(r),
			r.Campus,
			r.Office,
			r.ClientType.String(),
			strings.Join([]string{dash(r.CC1), dash(r.CC2), dash(r.CC3)}, " "),
			sqdCodes(r),
		)
	}
	tbl.Print()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func sqdCodes(r survey.Record) string {
	codes := make([]string, 0, survey.NumDimensions)
	for _, d := range survey.Dimensions {
		codes = append(codes, dash(r.SQD[d]))
	}
	return strings.Join(codes, " ")
}
