package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func record(office string, at time.Time) survey.Record {
	r := survey.NewRecord(at)
	r.Campus = "Main"
	r.Office = office
	r.ClientType = survey.ClientTypes{"C", "G"}
	r.CC1, r.CC2, r.CC3 = "1", "2", "NA"
	for _, d := range survey.Dimensions {
		r.SQD[d] = survey.Agree
	}
	return r
}

func TestAppendLoad_KeepsOrder(t *testing.T) {
	db := openTest(t)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	// Later timestamps first: append order wins over timestamp order.
	var want []survey.Record
	for i, office := range []string{"Registrar", "HR", "ICT"} {
		r := record(office, base.Add(-time.Duration(i)*time.Hour))
		require.NoError(t, db.Append(r))
		want = append(want, r)
	}

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAppend_DuplicateID(t *testing.T) {
	db := openTest(t)
	r := record("HR", time.Now())
	require.NoError(t, db.Append(r))
	assert.Error(t, db.Append(r))
}

func TestLoad_EmptyClientType(t *testing.T) {
	db := openTest(t)
	r := record("HR", time.Now())
	r.ClientType = nil
	require.NoError(t, db.Append(r))

	got, err := db.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ClientType)
}

func TestReplaceAll(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.Append(record("HR", time.Now())))

	fresh := []survey.Record{record("ICT", time.Now()), record("Library", time.Now())}
	require.NoError(t, db.ReplaceAll(fresh))

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestReplaceAll_RollsBack(t *testing.T) {
	db := openTest(t)
	keep := record("HR", time.Now())
	require.NoError(t, db.Append(keep))

	dup := record("ICT", time.Now())
	err := db.ReplaceAll([]survey.Record{dup, dup})
	require.Error(t, err)

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, []survey.Record{keep}, got)
}

func TestClear_KeepsOffices(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.Append(record("HR", time.Now())))
	_, err := db.AddOffice("HR")
	require.NoError(t, err)

	require.NoError(t, db.Clear())

	got, err := db.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	offices, err := db.ListOffices()
	require.NoError(t, err)
	assert.Len(t, offices, 1)
}

func TestUpdate_InPlace(t *testing.T) {
	db := openTest(t)
	a, b := record("HR", time.Now()), record("ICT", time.Now())
	require.NoError(t, db.Append(a))
	require.NoError(t, db.Append(b))

	edited, err := a.WithEdits(map[string]string{"office": "Cashier", "sqd3": "SD"})
	require.NoError(t, err)
	require.NoError(t, db.Update(edited))

	got, err := db.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, "Cashier", got[0].Office)
	assert.Equal(t, survey.StronglyDisagree, got[0].SQD[survey.SQD3])
	assert.Equal(t, b, got[1])
}

func TestNotFound(t *testing.T) {
	db := openTest(t)
	r := record("HR", time.Now())

	assert.True(t, errors.Is(db.Update(r), ErrNotFound))
	_, err := db.Get(r.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(db.RemoveOffice("Nowhere"), ErrNotFound))
}

func TestGet(t *testing.T) {
	db := openTest(t)
	r := record("HR", time.Now())
	require.NoError(t, db.Append(r))

	got, err := db.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestOffices(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.SeedOffices([]string{"Registrar", "accounting", "HR"}))

	added, err := db.AddOffice("  HR ")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = db.AddOffice(" ")
	assert.Error(t, err)

	require.NoError(t, db.RemoveOffice("Registrar"))
	// A non-empty list is never re-seeded.
	require.NoError(t, db.SeedOffices([]string{"Registrar"}))

	offices, err := db.ListOffices()
	require.NoError(t, err)
	var names []string
	for _, o := range offices {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"accounting", "HR"}, names)
}

func metrics(pairs ...any) []AggregateMetric {
	var out []AggregateMetric
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, AggregateMetric{MetricName: pairs[i].(string), MetricValue: pairs[i+1].(float64)})
	}
	return out
}

func TestSnapshots(t *testing.T) {
	db := openTest(t)

	none, err := db.NthSnapshot(1)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &Snapshot{Command: "track", Version: "test", Records: 10}
	m := metrics("overall_sqd", 91.5, "cc1_awareness", 80.0)
	require.NoError(t, db.SaveSnapshot(first, m))
	assert.NotZero(t, first.ID)
	assert.False(t, first.TakenAt.IsZero())
	assert.Equal(t, first.ID, m[1].SnapshotID)

	taken := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	second := &Snapshot{Command: "track", Version: "test", Records: 12, Scope: "campus=Main", TakenAt: taken}
	require.NoError(t, db.SaveSnapshot(second, nil))

	latest, err := db.NthSnapshot(1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, *second, *latest)

	prev, err := db.NthSnapshot(2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, prev.ID)

	for _, n := range []int{0, 3} {
		missing, err := db.NthSnapshot(n)
		require.NoError(t, err)
		assert.Nil(t, missing, "n=%d", n)
	}

	got, err := db.Metrics(first.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got, "metrics keep save order")

	recent, err := db.RecentSnapshots(5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, first.ID, recent[0].ID, "oldest first")

	recent, err = db.RecentSnapshots(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.ID, recent[0].ID)
}

func titles(s []Suggestion) []string {
	var out []string
	for _, x := range s {
		out = append(out, x.Title)
	}
	return out
}

func TestReconcileSuggestions(t *testing.T) {
	db := openTest(t)

	first := &Snapshot{Command: "track"}
	require.NoError(t, db.SaveSnapshot(first, nil))
	resolved, err := db.ReconcileSuggestions(first.ID, []Suggestion{
		{Category: "charter", Priority: 2, Title: "Raise charter awareness", ImpactScore: 1},
		{Category: "office", Priority: 1, Title: "Review HR", ImpactScore: 5},
		{Category: "office", Priority: 1, Title: "Review HR", ImpactScore: 5},
	})
	require.NoError(t, err)
	assert.Zero(t, resolved)

	open, err := db.OpenSuggestions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Review HR", "Raise charter awareness"}, titles(open))
	assert.Equal(t, StatusOpen, open[0].Status)

	second := &Snapshot{Command: "track"}
	require.NoError(t, db.SaveSnapshot(second, nil))
	resolved, err = db.ReconcileSuggestions(second.ID, []Suggestion{
		{Category: "office", Priority: 1, Title: "Review HR", ImpactScore: 5},
		{Category: "service_quality", Priority: 3, Title: "Improve SQD4", ImpactScore: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	open, err = db.OpenSuggestions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Review HR", "Improve SQD4"}, titles(open))
	assert.Equal(t, first.ID, open[0].SnapshotID, "a still-open suggestion keeps its first snapshot")
	assert.Equal(t, second.ID, open[1].SnapshotID)
}

func TestReconcileSuggestions_UnknownSnapshot(t *testing.T) {
	db := openTest(t)
	_, err := db.ReconcileSuggestions(42, []Suggestion{{Title: "x"}})
	assert.Error(t, err, "foreign key on snapshot_id")
	open, err := db.OpenSuggestions()
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.Migrate())
	var v int
	require.NoError(t, db.conn.QueryRow("PRAGMA user_version").Scan(&v))
	assert.Equal(t, SchemaVersion, v)
}

func TestMigrate_NewerSchema(t *testing.T) {
	db := openTest(t)
	_, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion+1))
	require.NoError(t, err)
	assert.ErrorContains(t, db.Migrate(), "newer than this build")
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "artawatch.db")
	db, err := Open(path)
	require.NoError(t, err)
	r := record("HR", time.Now())
	require.NoError(t, db.Append(r))
	require.NoError(t, db.Close())

	// Reopening runs migrations again without touching data.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, []survey.Record{r}, got)
}
