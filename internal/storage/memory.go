package storage

import (
	"context"
	"errors"
	"sync"

	"earl/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	agents      map[string]model.AgentSnapshot
	history     map[string][]float64
	runs        map[string]model.RunSummaryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.agents = make(map[string]model.AgentSnapshot)
	s.history = make(map[string][]float64)
	s.runs = make(map[string]model.RunSummaryRecord)
	return nil
}

func (s *MemoryStore) SaveAgent(_ context.Context, snap model.AgentSnapshot) error {
	if snap.ID == "" {
		return errors.New("agent snapshot id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents[snap.ID] = copySnapshot(snap)
	return nil
}

func (s *MemoryStore) GetAgent(_ context.Context, id string) (model.AgentSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.agents[id]
	if !ok {
		return model.AgentSnapshot{}, false, nil
	}
	return copySnapshot(snap), true, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[summary.RunID] = summary
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, runID string) (model.RunSummaryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.runs[runID]
	return summary, ok, nil
}
