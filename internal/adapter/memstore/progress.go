package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

// ProgressStore keeps memorization progress in memory. Records are copied in
// and out, so callers never share state with the store.
type ProgressStore struct {
	mu      sync.RWMutex
	records map[int]domain.MemorizationProgress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{records: make(map[int]domain.MemorizationProgress)}
}

func (s *ProgressStore) Get(_ context.Context, surahNumber int) (*domain.MemorizationProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[surahNumber]
	if !ok {
		return nil, nil
	}
	p = cloneProgress(p)
	return &p, nil
}

func (s *ProgressStore) Save(_ context.Context, p *domain.MemorizationProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[p.SurahNumber] = cloneProgress(*p)
	return nil
}

func (s *ProgressStore) List(_ context.Context) ([]domain.MemorizationProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MemorizationProgress, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, cloneProgress(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SurahNumber < out[j].SurahNumber })
	return out, nil
}

func cloneProgress(p domain.MemorizationProgress) domain.MemorizationProgress {
	p.StartDate = cloneTime(p.StartDate)
	p.LastReviewDate = cloneTime(p.LastReviewDate)
	p.LastStudyDate = cloneTime(p.LastStudyDate)
	p.NextReviewDate = cloneTime(p.NextReviewDate)
	p.Difficulties = slices.Clone(p.Difficulties)

	results := make([]domain.TestResult, len(p.TestResults))
	for i, r := range p.TestResults {
		r.Mistakes = slices.Clone(r.Mistakes)
		results[i] = r
	}
	p.TestResults = results
	return p
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
