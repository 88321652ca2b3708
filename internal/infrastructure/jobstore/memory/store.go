// Package memory provides the in-process job registry. Jobs are ephemeral:
// nothing survives a restart, and the store never deletes entries itself.
package memory

import (
	"sync"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

// Store is a mutex-guarded map of job records. Updates are copy-on-write:
// a patch produces a fresh record that replaces the stored value under the
// lock, so readers can never observe a record torn mid-update and no caller
// ever holds a mutable reference into the store.
type Store struct {
	mu   sync.Mutex
	jobs map[string]domain.Job
}

func New() *Store {
	return &Store{jobs: make(map[string]domain.Job)}
}

func (s *Store) Create(job domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return domain.ErrJobExists
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *Store) Get(id string) (domain.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return job.Clone(), true
}

func (s *Store) Update(id string, patch domain.JobUpdate) (domain.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	if patch.Result != nil {
		patch.Result = patch.Result.Clone()
	}
	updated := patch.Apply(job)
	s.jobs[id] = updated
	return updated.Clone(), true
}

func (s *Store) Set(job domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = job.Clone()
}
