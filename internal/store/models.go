// Package store persists analysis runs: one Run per corpus evaluation and
// one RunEntry per example.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kittclouds/ontokit/pkg/analysis"
	"github.com/kittclouds/ontokit/pkg/output"
)

// Run is the summary of one corpus evaluation.
type Run struct {
	ID                 string         `json:"id"`
	Lang               string         `json:"lang"`
	KindOrder          string         `json:"kindOrder"` // comma separated
	Reference          int64          `json:"reference"` // unix millis of the resolution context
	Examples           int            `json:"examples"`
	Parsed             int            `json:"parsed"`
	FullyCovered       int            `json:"fullyCovered"`
	Correct            int            `json:"correct"`
	Coverage           float64        `json:"coverage"`
	CoverageScore      float64        `json:"coverageScore"`
	ResolutionFailures int            `json:"resolutionFailures"`
	Kinds              map[string]int `json:"kinds"`
	CreatedAt          int64          `json:"createdAt"`
}

// RunEntry is the outcome of one example of a run.
type RunEntry struct {
	RunID       string  `json:"runId"`
	Seq         int     `json:"seq"`
	Text        string  `json:"text"`
	Matches     int     `json:"matches"`
	FullyCovers bool    `json:"fullyCovers"`
	Correct     bool    `json:"correct"`
	Coverage    float64 `json:"coverage"`
	Failures    int     `json:"failures"`
}

// Storer defines the interface for data persistence.
// This allows swapping between MemStore (testing) and SQLiteStore (production).
type Storer interface {
	// Runs
	SaveRun(run *Run, entries []*RunEntry) error
	GetRun(id string) (*Run, error)
	DeleteRun(id string) error
	ListRuns(lang string) ([]*Run, error)
	CountRuns() (int, error)

	// Entries
	ListEntries(runID string) ([]*RunEntry, error)

	// Lifecycle
	Close() error
}

// NewRun converts a report into a run with a fresh id and its entries.
func NewRun(lang string, order []output.Kind, ref time.Time, r analysis.Report) (*Run, []*RunEntry) {
	names := make([]string, len(order))
	for i, k := range order {
		names[i] = k.String()
	}
	run := &Run{
		ID:                 uuid.NewString(),
		Lang:               lang,
		KindOrder:          strings.Join(names, ","),
		Reference:          ref.UnixMilli(),
		Examples:           r.Examples,
		Parsed:             r.Parsed,
		FullyCovered:       r.FullyCovered,
		Correct:            r.Correct,
		Coverage:           r.Coverage,
		CoverageScore:      r.CoverageScore,
		ResolutionFailures: r.ResolutionFailures,
		Kinds:              make(map[string]int, len(r.Kinds)),
		CreatedAt:          time.Now().UnixMilli(),
	}
	for k, n := range r.Kinds {
		run.Kinds[k] = n
	}

	entries := make([]*RunEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = &RunEntry{
			RunID:       run.ID,
			Seq:         i,
			Text:        e.Text,
			Matches:     e.Matches,
			FullyCovers: e.FullyCovers,
			Correct:     e.Correct,
			Coverage:    e.Coverage,
			Failures:    e.Failures,
		}
	}
	return run, entries
}

// Open returns the store for a configured driver.
func Open(driver, dsn string) (Storer, error) {
	switch driver {
	case "memory":
		return NewMemStore(), nil
	case "sqlite":
		return NewSQLiteStoreWithDSN(dsn)
	}
	return nil, fmt.Errorf("store: unknown driver %q", driver)
}
