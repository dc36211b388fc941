package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/store"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var editSet []string

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Correct fields of an encoded record",
	Long: `Replace fields of one record in place. The record keeps its ID and its
position in the collection. The ID may be abbreviated to any unique prefix.

Fields: ` + strings.Join(survey.Fields, ", ") + `

Example:
  artawatch edit 3f2a91c0 --set office=Registrar --set sqd4=D`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringArrayVar(&editSet, "set", nil, "field=value to change (repeatable)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	edits, err := parseAssignments(editSet)
	if err != nil {
		return err
	}
	if len(edits) == 0 {
		return fmt.Errorf("nothing to change: pass at least one --set field=value")
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	id, err := resolveID(ws.db, args[0])
	if err != nil {
		return err
	}
	before, err := ws.db.Get(id)
	if err != nil {
		return err
	}
	after, err := before.WithEdits(edits)
	if err != nil {
		return err
	}
	invalid, legacy := splitFieldErrors(survey.Validate(after), edits)
	if len(invalid) > 0 {
		printFieldErrors(invalid)
		return fmt.Errorf("record not changed: %d invalid field(s)", len(invalid))
	}
	for _, e := range legacy {
		logger.Warn("field keeps an unrecognised value",
			zap.String("id", id), zap.String("field", e.Field), zap.String("value", e.Value))
	}
	if after.Office != before.Office {
		warnUnlistedOffice(ws.db, after.Office)
	}
	if err := ws.db.Update(after); err != nil {
		return err
	}

	fields := make([]string, 0, len(edits))
	for f := range edits {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	logger.Info("record updated", zap.String("id", id), zap.Strings("fields", fields))

	if flagJSON {
		return printJSON(after)
	}
	fmt.Printf(" %s Updated record %s (%s)\n", output.StyleSuccess.Render("✓"), id, strings.Join(fields, ", "))
	return nil
}

// splitFieldErrors separates errors on the fields being edited from errors
// on fields left as they were, such as unrecognised values kept by an
// import.
func splitFieldErrors(errs []survey.FieldError, edits map[string]string) (edited, untouched []survey.FieldError) {
	for _, e := range errs {
		if _, ok := edits[e.Field]; ok {
			edited = append(edited, e)
		} else {
			untouched = append(untouched, e)
		}
	}
	return edited, untouched
}

// resolveID expands a unique ID prefix to the full record ID.
func resolveID(db *store.DB, prefix string) (string, error) {
	if _, err := db.Get(prefix); err == nil {
		return prefix, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	records, err := db.Load()
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range records {
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("record prefix %q is ambiguous", prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("record %s: %w", prefix, store.ErrNotFound)
	}
	return match, nil
}
