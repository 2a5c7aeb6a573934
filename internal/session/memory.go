package session

import (
	"context"
	"sync"

	"medquiz/internal/models"
)

// MemoryStore is an in-process Store for development and tests
type MemoryStore struct {
	mu      sync.RWMutex
	answers map[string][]models.TrialAnswer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		answers: make(map[string][]models.TrialAnswer),
	}
}

func (s *MemoryStore) Append(_ context.Context, key string, answer models.TrialAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[key] = append(s.answers[key], answer)
	return nil
}

func (s *MemoryStore) List(_ context.Context, key string) ([]models.TrialAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.answers[key]
	answers := make([]models.TrialAnswer, len(stored))
	copy(answers, stored)
	return answers, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.answers, key)
	return nil
}
