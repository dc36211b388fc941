package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/artawatch/internal/csvcodec"
	"github.com/blackwell-systems/artawatch/internal/export"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var importAppend bool

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Replace the collection from CSV, JSON or XLSX files",
	Long: `Load records from one or more files and replace the whole collection with
them. Use --append to add them to the existing records instead.

The format is chosen by extension:
  .csv   the 21-column survey layout (` + "`artawatch export --format csv`" + `)
  .json  an array of records, as written by 'artawatch export --format json'
  .xlsx  the "Encoded Data" sheet written by 'artawatch export --format xlsx'

Every imported record gets a fresh ID. CSV lines with too few columns are
skipped and reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importAppend, "append", false, "Append to the existing records instead of replacing them")
	rootCmd.AddCommand(importCmd)
}

// fileImport is the outcome of decoding one input file.
type fileImport struct {
	Path    string                `json:"path"`
	Records []survey.Record       `json:"-"`
	Count   int                   `json:"records"`
	Skipped []*csvcodec.LineError `json:"-"`
	Lines   []int                 `json:"skipped_lines,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	files, err := decodeFiles(cmd.Context(), args, time.Now)
	if err != nil {
		return err
	}

	var incoming []survey.Record
	for _, f := range files {
		incoming = append(incoming, f.Records...)
	}
	if len(incoming) == 0 {
		return fmt.Errorf("%w: expected columns: %s", csvcodec.ErrNoRows, csvcodec.ExpectedColumns)
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	replaced, err := ws.db.Count()
	if err != nil {
		return err
	}
	all := incoming
	if importAppend {
		existing, err := ws.db.Load()
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}
		all = append(existing, incoming...)
		replaced = 0
	}
	if err := ws.db.ReplaceAll(all); err != nil {
		return fmt.Errorf("saving imported records: %w", err)
	}

	skipped := 0
	for _, f := range files {
		skipped += len(f.Skipped)
	}
	logger.Info("import complete",
		zap.Int("files", len(files)),
		zap.Int("imported", len(incoming)),
		zap.Int("skipped_lines", skipped),
		zap.Int("replaced", replaced),
		zap.Bool("append", importAppend),
	)

	if flagJSON {
		return printJSON(map[string]any{
			"files":    files,
			"imported": len(incoming),
			"replaced": replaced,
			"total":    len(all),
		})
	}

	fmt.Println(output.Section("Import"))
	fmt.Println()
	tbl := output.NewTable("File", "Records", "Skipped Lines").AlignRight(1)
	for _, f := range files {
		tbl.AddRow(f.Path, fmt.Sprintf("%d", f.Count), skippedLines(f.Lines))
	}
	tbl.Print()
	fmt.Println()
	if importAppend {
		fmt.Printf(" %s Appended %d record(s); collection now holds %d\n",
			output.StyleSuccess.Render("✓"), len(incoming), len(all))
	} else {
		fmt.Printf(" %s Imported %d record(s), replacing %d\n",
			output.StyleSuccess.Render("✓"), len(incoming), replaced)
	}
	return nil
}

func skippedLines(lines []int) string {
	if len(lines) == 0 {
		return "-"
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%d", l)
	}
	return strings.Join(parts, ", ")
}

// decodeFiles decodes every path concurrently. Results keep the order of
// paths. A file with no importable rows is a warning; any other failure
// cancels the rest.
func decodeFiles(ctx context.Context, paths []string, now func() time.Time) ([]fileImport, error) {
	results := make([]fileImport, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := decodeFile(path, now)
			if errors.Is(err, csvcodec.ErrNoRows) {
				logger.Warn("no rows imported", zap.String("file", path))
				err = nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeFile(path string, now func() time.Time) (fileImport, error) {
	res := fileImport{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		out, err := csvcodec.Decode(f,
			csvcodec.WithLogger(logger.With(zap.String("file", path))),
			csvcodec.WithClock(now),
		)
		res.Records, res.Skipped = out.Records, out.Skipped
		for _, le := range out.Skipped {
			res.Lines = append(res.Lines, le.Line)
		}
		if err != nil {
			return res, err
		}
	case ".json":
		var records []survey.Record
		if err := json.NewDecoder(f).Decode(&records); err != nil {
			return res, fmt.Errorf("decoding json: %w", err)
		}
		res.Records = freshRecords(records, now())
	case ".xlsx":
		records, err := export.ReadXLSX(f, now())
		if err != nil {
			return res, err
		}
		res.Records = records
	default:
		return res, fmt.Errorf("unsupported file type %q (want .csv, .json or .xlsx)", filepath.Ext(path))
	}

	res.Count = len(res.Records)
	if res.Count == 0 {
		return res, csvcodec.ErrNoRows
	}
	return res, nil
}

// freshRecords gives every record a new ID, stamps records that have no
// timestamp and canonicalises coded fields.
func freshRecords(records []survey.Record, now time.Time) []survey.Record {
	out := make([]survey.Record, 0, len(records))
	for _, r := range records {
		r.ID = uuid.NewString()
		if strings.TrimSpace(r.Timestamp) == "" {
			r.Timestamp = now.UTC().Format(time.RFC3339)
		}
		out = append(out, r.Normalize())
	}
	return out
}
