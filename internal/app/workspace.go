package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/config"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/store"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

// workspace bundles the configuration and open database most commands use.
type workspace struct {
	cfg *config.Config
	db  *store.DB
}

func openWorkspace() (*workspace, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.SeedOffices(cfg.Offices); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding offices: %w", err)
	}
	logger.Debug("database opened", zap.String("path", cfg.DBPath))
	return &workspace{cfg: cfg, db: db}, nil
}

func (w *workspace) Close() {
	_ = w.db.Close()
}

// records loads the collection and applies f.
func (w *workspace) records(f recordFilter) ([]survey.Record, error) {
	all, err := w.db.Load()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	filtered := f.apply(all)
	logger.Debug("records loaded",
		zap.Int("total", len(all)),
		zap.Int("selected", len(filtered)),
		zap.String("scope", f.scope()),
	)
	return filtered, nil
}

// recordFilter narrows report commands to one campus and/or office.
type recordFilter struct {
	campus string
	office string
}

func (f *recordFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.campus, "campus", "", "Only include records from this campus")
	cmd.Flags().StringVar(&f.office, "office", "", "Only include records from this office")
}

func matches(value, want string) bool {
	return want == "" || strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(want))
}

func (f recordFilter) apply(records []survey.Record) []survey.Record {
	if f.campus == "" && f.office == "" {
		return records
	}
	out := make([]survey.Record, 0, len(records))
	for _, r := range records {
		if matches(r.Campus, f.campus) && matches(r.Office, f.office) {
			out = append(out, r)
		}
	}
	return out
}

// scope describes the filter for headings and snapshots; "" means all records.
func (f recordFilter) scope() string {
	var parts []string
	if f.campus != "" {
		parts = append(parts, "campus="+f.campus)
	}
	if f.office != "" {
		parts = append(parts, "office="+f.office)
	}
	return strings.Join(parts, " ")
}

// heading appends the filter scope to a section title.
func (f recordFilter) heading(title string) string {
	if s := f.scope(); s != "" {
		return title + " (" + s + ")"
	}
	return title
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseAssignments splits repeated field=value flags.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid assignment %q (want field=value)", p)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

func printFieldErrors(errs []survey.FieldError) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, " %s %s: %q is not valid (%s)\n",
			output.StyleError.Render("✗"), e.Field, e.Value, e.Rule)
	}
}
