package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ontokit/pkg/analysis"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/rules"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

var reference = time.Date(2013, 2, 12, 4, 30, 0, 0, time.FixedZone("", -2*3600))

func sampleReport() analysis.Report {
	a := analysis.NewAnalyzer()
	a.Add(analysis.Sample{
		Text:    "twenty-one",
		Spans:   []analysis.Span{{Range: rules.NewRange(0, 10), Kind: output.Number}},
		Correct: true,
	})
	a.Add(analysis.Sample{Text: "hello", Failures: 2})
	return a.Report()
}

func newRun(t *testing.T, lang string, created int64) (*Run, []*RunEntry) {
	t.Helper()
	run, entries := NewRun(lang, []output.Kind{output.Number, output.Time}, reference, sampleReport())
	run.CreatedAt = created
	return run, entries
}

// =============================================================================
// Tests
// =============================================================================

func TestStoreCreation(t *testing.T) {
	runTestsForAllStores(t, "Creation", func(t *testing.T, store Storer) {
		require.NotNil(t, store, "Store should not be nil")
		count, err := store.CountRuns()
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestNewRun(t *testing.T) {
	run, entries := NewRun("EN", []output.Kind{output.Number, output.Time}, reference, sampleReport())
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "Number,Time", run.KindOrder)
	assert.Equal(t, reference.UnixMilli(), run.Reference)
	assert.Equal(t, 2, run.Examples)
	assert.Equal(t, 1, run.Correct)
	assert.Equal(t, 2, run.ResolutionFailures)
	assert.Equal(t, map[string]int{"Number": 1}, run.Kinds)

	require.Len(t, entries, 2)
	assert.Equal(t, run.ID, entries[1].RunID)
	assert.Equal(t, 1, entries[1].Seq)
	assert.Equal(t, "hello", entries[1].Text)
	assert.Equal(t, 2, entries[1].Failures)

	other, _ := NewRun("EN", nil, reference, sampleReport())
	assert.NotEqual(t, run.ID, other.ID)
}

func TestRunSaveAndGet(t *testing.T) {
	runTestsForAllStores(t, "SaveAndGet", func(t *testing.T, store Storer) {
		run, entries := newRun(t, "EN", 1000)
		require.NoError(t, store.SaveRun(run, entries))

		got, err := store.GetRun(run.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, run, got)

		stored, err := store.ListEntries(run.ID)
		require.NoError(t, err)
		assert.Equal(t, entries, stored)
	})
}

func TestRunGetMissing(t *testing.T) {
	runTestsForAllStores(t, "GetMissing", func(t *testing.T, store Storer) {
		got, err := store.GetRun("nope")
		require.NoError(t, err)
		assert.Nil(t, got)

		entries, err := store.ListEntries("nope")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestRunIsolation(t *testing.T) {
	runTestsForAllStores(t, "Isolation", func(t *testing.T, store Storer) {
		run, entries := newRun(t, "EN", 1000)
		require.NoError(t, store.SaveRun(run, entries))

		run.Kinds["Number"] = 99
		entries[0].Text = "mutated"

		got, err := store.GetRun(run.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Kinds["Number"])

		stored, err := store.ListEntries(run.ID)
		require.NoError(t, err)
		assert.Equal(t, "twenty-one", stored[0].Text)
	})
}

func TestRunResaveReplacesEntries(t *testing.T) {
	runTestsForAllStores(t, "Resave", func(t *testing.T, store Storer) {
		run, entries := newRun(t, "EN", 1000)
		require.NoError(t, store.SaveRun(run, entries))
		require.NoError(t, store.SaveRun(run, entries[:1]))

		stored, err := store.ListEntries(run.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)

		count, err := store.CountRuns()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestListRuns(t *testing.T) {
	runTestsForAllStores(t, "List", func(t *testing.T, store Storer) {
		old, e1 := newRun(t, "EN", 1000)
		recent, e2 := newRun(t, "EN", 2000)
		other, e3 := newRun(t, "DE", 3000)
		require.NoError(t, store.SaveRun(old, e1))
		require.NoError(t, store.SaveRun(recent, e2))
		require.NoError(t, store.SaveRun(other, e3))

		en, err := store.ListRuns("EN")
		require.NoError(t, err)
		require.Len(t, en, 2)
		assert.Equal(t, recent.ID, en[0].ID, "newest first")
		assert.Equal(t, old.ID, en[1].ID)

		all, err := store.ListRuns("")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, other.ID, all[0].ID)
	})
}

func TestDeleteRun(t *testing.T) {
	runTestsForAllStores(t, "Delete", func(t *testing.T, store Storer) {
		run, entries := newRun(t, "EN", 1000)
		require.NoError(t, store.SaveRun(run, entries))
		require.NoError(t, store.DeleteRun(run.ID))

		got, err := store.GetRun(run.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		stored, err := store.ListEntries(run.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)

		// deleting twice is fine
		assert.NoError(t, store.DeleteRun(run.ID))
	})
}

func TestSQLiteFilePersists(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "runs.db")

	s, err := NewSQLiteStoreWithDSN(dsn)
	require.NoError(t, err)
	run, entries := newRun(t, "EN", 1000)
	require.NoError(t, s.SaveRun(run, entries))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStoreWithDSN(dsn)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestOpen(t *testing.T) {
	s, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)

	s, err = Open("sqlite", ":memory:")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("postgres", "")
	assert.Error(t, err)
}
