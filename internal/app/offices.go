package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/store"
)

var officesCmd = &cobra.Command{
	Use:   "offices",
	Short: "Manage the office list",
	Long: `Show and edit the list of offices offered when encoding. The list starts
with the offices from the config file. Records may still name offices that
are not listed.`,
	Args: cobra.NoArgs,
	RunE: runOfficesList,
}

var officesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the office list",
	Args:  cobra.NoArgs,
	RunE:  runOfficesList,
}

var officesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an office",
	Args:  cobra.ExactArgs(1),
	RunE:  runOfficesAdd,
}

var officesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an office",
	Args:  cobra.ExactArgs(1),
	RunE:  runOfficesRemove,
}

func init() {
	officesCmd.AddCommand(officesListCmd, officesAddCmd, officesRemoveCmd)
	rootCmd.AddCommand(officesCmd)
}

func runOfficesList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	offices, err := ws.db.ListOffices()
	if err != nil {
		return err
	}
	if flagJSON {
		if offices == nil {
			offices = []store.Office{}
		}
		return printJSON(offices)
	}

	fmt.Println(output.Section(fmt.Sprintf("Offices (%d)", len(offices))))
	fmt.Println()
	if len(offices) == 0 {
		fmt.Println(" No offices. Add one with 'artawatch offices add <name>'.")
		return nil
	}
	for _, o := range offices {
		fmt.Printf("  %s\n", o.Name)
	}
	return nil
}

func runOfficesAdd(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	added, err := ws.db.AddOffice(args[0])
	if err != nil {
		return err
	}
	if !added {
		fmt.Printf(" %s is already listed\n", args[0])
		return nil
	}
	logger.Info("office added", zap.String("office", args[0]))
	fmt.Printf(" %s Added office %s\n", output.StyleSuccess.Render("✓"), args[0])
	return nil
}

func runOfficesRemove(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.db.RemoveOffice(args[0]); err != nil {
		return fmt.Errorf("removing office %s: %w", args[0], err)
	}
	logger.Info("office removed", zap.String("office", args[0]))
	fmt.Printf(" %s Removed office %s\n", output.StyleSuccess.Render("✓"), args[0])
	return nil
}
