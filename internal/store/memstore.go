package store

import (
	"sync"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// MergeStore accumulates canonical listings across every keyword of one
// pipeline run, deduplicated by job ID with first-write-wins. It is scoped to
// a single run; repeated runs each get a fresh store.
type MergeStore struct {
	mu    sync.Mutex
	byID  map[string]model.JobListing
	order []string
}

// NewMergeStore returns an empty merge store.
func NewMergeStore() *MergeStore {
	return &MergeStore{byID: make(map[string]model.JobListing)}
}

// Insert adds the listing unless one with the same job ID is already present.
// It returns true when the listing was stored, false for a duplicate (a
// no-op, not an error). Atomic per key, so the first successful writer wins
// even if keyword processing is ever parallelized.
func (s *MergeStore) Insert(job model.JobListing) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[job.JobID]; ok {
		return false
	}
	s.byID[job.JobID] = job
	s.order = append(s.order, job.JobID)
	return true
}

// Len returns the number of stored listings.
func (s *MergeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Values returns the stored listings in insertion order. The result is a
// copy; re-calling yields the same sequence for the life of the run.
func (s *MergeStore) Values() []model.JobListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]model.JobListing, 0, len(s.order))
	for _, id := range s.order {
		values = append(values, s.byID[id])
	}
	return values
}
