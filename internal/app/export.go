package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/csvcodec"
	"github.com/blackwell-systems/artawatch/internal/export"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	exportFormat string
	exportOut    string
	exportFilter recordFilter
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the collection as CSV, JSON or XLSX",
	Long: `Write encoded records as CSV (the import layout), JSON (an array of
records) or XLSX (an "Encoded Data" sheet). Without -o the output goes to
stdout; XLSX always needs -o. When -o is given without --format, the format
is taken from the file extension.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv, json or xlsx (default csv)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to this file instead of stdout")
	exportFilter.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

// exportFormatFor picks the format from the flag, then the file extension.
func exportFormatFor(format, path string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch f {
	case "", "csv":
		return "csv", nil
	case "json", "xlsx":
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or xlsx)", f)
}

func writeRecords(w io.Writer, format string, records []survey.Record) error {
	switch format {
	case "json":
		if records == nil {
			records = []survey.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "xlsx":
		return export.WriteXLSX(w, records)
	default:
		return csvcodec.Encode(w, records)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := exportFormatFor(exportFormat, exportOut)
	if err != nil {
		return err
	}
	if format == "xlsx" && exportOut == "" {
		return fmt.Errorf("xlsx export needs an output file (-o)")
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.records(exportFilter)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return writeRecords(os.Stdout, format, records)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", exportOut, err)
	}
	if err := writeRecords(f, format, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", exportOut, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("export complete",
		zap.String("file", exportOut),
		zap.String("format", format),
		zap.Int("records", len(records)),
	)
	fmt.Fprintf(os.Stderr, " %s Wrote %d record(s) to %s\n",
		output.StyleSuccess.Render("✓"), len(records), exportOut)
	return nil
}
