package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/output"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every encoded record",
	Long: `Delete every encoded record. The office list and stored snapshots are
kept. Export the collection first if you may need it again.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting all records")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	n, err := ws.db.Count()
	if err != nil {
		return err
	}
	if !clearYes {
		return fmt.Errorf("refusing to delete %d record(s) without --yes", n)
	}
	if err := ws.db.Clear(); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	logger.Info("records cleared", zap.Int("count", n))

	if flagJSON {
		return printJSON(map[string]int{"deleted": n})
	}
	fmt.Printf(" %s Deleted %d record(s)\n", output.StyleSuccess.Render("✓"), n)
	return nil
}
