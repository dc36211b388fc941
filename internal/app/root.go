// Package app contains the Cobra command tree for artawatch.
package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blackwell-systems/artawatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

// logger is replaced in PersistentPreRunE; commands log through it.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "artawatch",
	Short: "Encode and analyze ARTA client satisfaction surveys",
	Long: `artawatch stores encoded ARTA Citizen's Charter and Service Quality
Dimension questionnaires in a local database and produces the summary,
breakdown, tabular and dissatisfaction reports used for ARTA compliance.

Run 'artawatch' with no arguments to see the available commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(flagVerbose)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l

		if flagNoColor || !isTerminal(os.Stdout) {
			output.SetNoColor(true)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("artawatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  add              Encode one questionnaire")
		fmt.Println("  list             List encoded records")
		fmt.Println("  edit             Correct fields of an encoded record")
		fmt.Println("  import           Replace the collection from CSV, JSON or XLSX files")
		fmt.Println("  export           Write the collection as CSV, JSON or XLSX")
		fmt.Println("  clear            Delete every encoded record")
		fmt.Println("  offices          Manage the office list")
		fmt.Println("  report           Summary scores, charter awareness and office scores")
		fmt.Println("  breakdown        Per campus, office or demographic metrics")
		fmt.Println("  tabular          ARTA tabular report tables")
		fmt.Println("  dissatisfaction  Negative ratings, charter issues and comments")
		fmt.Println("  recommend        Ranked improvement recommendations")
		fmt.Println("  track            Snapshot and compare headline metrics over time")
		fmt.Println("  watch            Alert on new responses and score changes while encoding")
		fmt.Println("  mcp              Serve the reports to an assistant over MCP stdio")
		return nil
	},
}

// newLogger builds a console logger on stderr. Warnings and errors are shown
// by default; verbose adds info and debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/artawatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
