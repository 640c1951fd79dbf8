// Package memory implements pipeline.Store in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meikuraledutech/pipeline"
	"github.com/tidwall/btree"
)

// MemStore keeps evaluations ordered by creation time.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[string]pipeline.Evaluation
	index *btree.BTreeG[pipeline.Evaluation]
	now   func() time.Time
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{
		byID:  make(map[string]pipeline.Evaluation),
		index: btree.NewBTreeG[pipeline.Evaluation](evaluationLess),
		now:   time.Now,
	}
}

func evaluationLess(a, b pipeline.Evaluation) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// CreateSchema is a no-op.
func (s *MemStore) CreateSchema(ctx context.Context) error { return nil }

// DropSchema removes every recorded evaluation.
func (s *MemStore) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]pipeline.Evaluation)
	s.index.Clear()
	return nil
}

// Ping always succeeds.
func (s *MemStore) Ping(ctx context.Context) error { return nil }

// RecordEvaluation stores report under a new UUID.
func (s *MemStore) RecordEvaluation(ctx context.Context, report pipeline.Report) (*pipeline.Evaluation, error) {
	ev := pipeline.Evaluation{
		ID:        uuid.NewString(),
		Report:    cloneReport(report),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.byID[ev.ID] = ev
	s.index.Set(ev)
	s.mu.Unlock()

	out := ev
	out.Report = cloneReport(ev.Report)
	return &out, nil
}

// GetEvaluation returns nil, nil if id is unknown.
func (s *MemStore) GetEvaluation(ctx context.Context, id string) (*pipeline.Evaluation, error) {
	s.mu.RLock()
	ev, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	ev.Report = cloneReport(ev.Report)
	return &ev, nil
}

// ListEvaluations returns up to limit evaluations, newest first.
// A non-positive limit returns all of them.
func (s *MemStore) ListEvaluations(ctx context.Context, limit int) ([]pipeline.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []pipeline.Evaluation{}
	s.index.Reverse(func(ev pipeline.Evaluation) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		ev.Report = cloneReport(ev.Report)
		out = append(out, ev)
		return true
	})
	return out, nil
}

// DeleteEvaluation returns pipeline.ErrEvaluationNotFound if id is unknown.
func (s *MemStore) DeleteEvaluation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.byID[id]
	if !ok {
		return pipeline.ErrEvaluationNotFound
	}
	delete(s.byID, id)
	s.index.Delete(ev)
	return nil
}

func cloneReport(r pipeline.Report) pipeline.Report {
	r.NodeTypes = append([]string{}, r.NodeTypes...)
	return r
}
