package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	nextID      int64
	requests    map[int64]SavedRequest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.nextID = 1
	s.requests = make(map[int64]SavedRequest)
	return nil
}

func (s *MemoryStore) SaveResult(_ context.Context, req model.CutRequest, result model.CutResult) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, fmt.Errorf("store is not initialized")
	}

	saved := SavedRequest{
		ID:             s.nextID,
		BeamLength:     req.BeamLength,
		ElementLengths: append([]int(nil), req.ElementLengths...),
		CreatedAt:      time.Now().UTC(),
	}
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		if !ok {
			return 0, fmt.Errorf("plan references unknown pattern %s", entry.PatternID)
		}
		saved.Usages = append(saved.Usages, SavedUsage{
			Pattern:    pattern.Clone(),
			Repetition: entry.Repetition,
		})
	}

	s.requests[saved.ID] = saved
	s.nextID++
	return saved.ID, nil
}

func (s *MemoryStore) GetRequest(_ context.Context, id int64) (SavedRequest, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saved, ok := s.requests[id]
	if !ok {
		return SavedRequest{}, false, nil
	}
	return cloneSavedRequest(saved), true, nil
}

func (s *MemoryStore) ListRequests(_ context.Context, limit int) ([]SavedRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	ids := make([]int64, 0, len(s.requests))
	for id := range s.requests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var saved []SavedRequest
	for _, id := range ids {
		if len(saved) == limit {
			break
		}
		r := cloneSavedRequest(s.requests[id])
		r.Usages = nil // listing carries metadata only, like the sqlite store
		saved = append(saved, r)
	}
	return saved, nil
}

func (s *MemoryStore) CountRequests(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.requests), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = false
	s.requests = nil
	return nil
}

func cloneSavedRequest(r SavedRequest) SavedRequest {
	copied := r
	copied.ElementLengths = append([]int(nil), r.ElementLengths...)
	copied.Usages = make([]SavedUsage, len(r.Usages))
	for i, u := range r.Usages {
		copied.Usages[i] = SavedUsage{Pattern: u.Pattern.Clone(), Repetition: u.Repetition}
	}
	return copied
}
