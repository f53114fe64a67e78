package store

import (
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	entries map[string][]*RunEntry
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		runs:    make(map[string]*Run),
		entries: make(map[string][]*RunEntry),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// copyRun deep-copies to avoid mutation through shared maps.
func copyRun(r *Run) *Run {
	c := *r
	c.Kinds = make(map[string]int, len(r.Kinds))
	for k, n := range r.Kinds {
		c.Kinds[k] = n
	}
	return &c
}

func (s *MemStore) SaveRun(run *Run, entries []*RunEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = copyRun(run)
	stored := make([]*RunEntry, len(entries))
	for i, e := range entries {
		c := *e
		c.RunID = run.ID
		stored[i] = &c
	}
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].Seq < stored[j].Seq })
	s.entries[run.ID] = stored
	return nil
}

func (s *MemStore) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if run, ok := s.runs[id]; ok {
		return copyRun(run), nil
	}
	return nil, nil
}

func (s *MemStore) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.runs, id)
	delete(s.entries, id)
	return nil
}

func (s *MemStore) ListRuns(lang string) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Run
	for _, run := range s.runs {
		if lang == "" || run.Lang == lang {
			result = append(result, copyRun(run))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemStore) CountRuns() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs), nil
}

func (s *MemStore) ListEntries(runID string) ([]*RunEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*RunEntry
	for _, e := range s.entries[runID] {
		c := *e
		result = append(result, &c)
	}
	return result, nil
}
