package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/store"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

var (
	addCampus     string
	addOffice     string
	addClientType []string
	addSex        string
	addAgeGroup   string
	addDocument   string
	addServices   string
	addComments   string
	addCC         []string
	addRatings    []string
	addSet        []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Encode one questionnaire",
	Long: `Encode one paper questionnaire and append it to the collection.

Charter answers are codes 1-5 or NA. Ratings are SD, D, ND, A, SA or NA
(1-5 and the full labels are accepted too) given in SQD0..SQD8 order.

Examples:
  artawatch add --campus "Bulan Campus" --office HR --client-type C \
    --sex Female --age-group 20-34 --services "Certificate request" \
    --cc 1,1,1 --ratings SA,A,A,A,ND,A,SA,A,A
  artawatch add --office ICT --ratings A,A,A,A,A,A,A,A,A --set comments="Slow queue"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addCampus, "campus", "", "Campus")
	addCmd.Flags().StringVar(&addOffice, "office", "", "Office")
	addCmd.Flags().StringSliceVar(&addClientType, "client-type", nil, "Client type tags (C, B, G, \"Did not answer\")")
	addCmd.Flags().StringVar(&addSex, "sex", "", "Male, Female or \"Did not answer\"")
	addCmd.Flags().StringVar(&addAgeGroup, "age-group", "", "19-B, 20-34, 35-49, 50-64, 65-UP or \"Did not answer\"")
	addCmd.Flags().StringVar(&addDocument, "document", "", "Document number")
	addCmd.Flags().StringVar(&addServices, "services", "", "Service availed")
	addCmd.Flags().StringVar(&addComments, "comments", "", "Comments or suggestions")
	addCmd.Flags().StringSliceVar(&addCC, "cc", nil, "CC1,CC2,CC3 answers")
	addCmd.Flags().StringSliceVar(&addRatings, "ratings", nil, "Nine SQD0..SQD8 ratings")
	addCmd.Flags().StringArrayVar(&addSet, "set", nil, "Set any field as field=value (repeatable)")
	rootCmd.AddCommand(addCmd)
}

// addEdits collects the add flags into field edits. --set wins over the
// dedicated flags.
func addEdits() (map[string]string, error) {
	edits := make(map[string]string)
	put := func(field, value string) {
		if v := strings.TrimSpace(value); v != "" {
			edits[field] = v
		}
	}
	put("campus", addCampus)
	put("office", addOffice)
	put("clientType", strings.Join(addClientType, ", "))
	put("sex", addSex)
	put("ageGroup", addAgeGroup)
	put("documentNumber", addDocument)
	put("services", addServices)
	put("comments", addComments)

	if len(addCC) > 3 {
		return nil, fmt.Errorf("--cc takes at most 3 answers, got %d", len(addCC))
	}
	for i, v := range addCC {
		put(fmt.Sprintf("cc%d", i+1), v)
	}
	if len(addRatings) > 0 && len(addRatings) != survey.NumDimensions {
		return nil, fmt.Errorf("--ratings takes %d answers, got %d", survey.NumDimensions, len(addRatings))
	}
	for i, v := range addRatings {
		put(survey.Dimension(i).Key(), v)
	}

	set, err := parseAssignments(addSet)
	if err != nil {
		return nil, err
	}
	for k, v := range set {
		edits[k] = v
	}
	return edits, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	edits, err := addEdits()
	if err != nil {
		return err
	}

	rec, err := survey.NewRecord(time.Now()).WithEdits(edits)
	if err != nil {
		return err
	}
	rec = rec.Normalize()
	if errs := survey.Validate(rec); len(errs) > 0 {
		printFieldErrors(errs)
		return fmt.Errorf("record not added: %d invalid field(s)", len(errs))
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	warnUnlistedOffice(ws.db, rec.Office)

	if err := ws.db.Append(rec); err != nil {
		return err
	}
	logger.Info("record added", zap.String("id", rec.ID), zap.String("office", rec.Office))

	if flagJSON {
		return printJSON(rec)
	}
	fmt.Printf(" %s Added record %s\n", output.StyleSuccess.Render("✓"), rec.ID)
	return nil
}

// warnUnlistedOffice logs a warning when office is not in the office list.
// Unlisted offices are still accepted.
func warnUnlistedOffice(db *store.DB, office string) {
	if office == "" {
		return
	}
	offices, err := db.ListOffices()
	if err != nil {
		logger.Warn("listing offices", zap.Error(err))
		return
	}
	for _, o := range offices {
		if strings.EqualFold(o.Name, office) {
			return
		}
	}
	logger.Warn("office is not in the office list; add it with 'artawatch offices add'",
		zap.String("office", office))
}
