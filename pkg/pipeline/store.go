package pipeline

import (
	"errors"
	"sort"
	"sync"
)

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// RunStore keeps completed run results in memory. Safe for concurrent
// use.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*Result
}

// NewRunStore creates an empty store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*Result)}
}

// Put stores a result, replacing any previous run with the same id.
func (s *RunStore) Put(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[res.ID] = res
}

// Get returns the result for a run id.
func (s *RunStore) Get(id string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return res, nil
}

// List returns all stored results, newest first.
func (s *RunStore) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Result, 0, len(s.runs))
	for _, res := range s.runs {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
