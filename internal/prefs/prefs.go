// Package prefs stores the remembered currency pair per chat session.
//
// The pipeline itself is stateless (the selected pair always arrives as
// a parameter), so this store is owned entirely by the delivery layer.
package prefs

import (
	"context"
	"sync"

	"fx-signal-bot/internal/model"
)

// Memory is a process-local PairStore, used when Redis is not configured
// and in tests.
type Memory struct {
	mu sync.RWMutex
	m  map[int64]model.Pair
}

// NewMemory creates an empty in-memory pair store.
func NewMemory() *Memory {
	return &Memory{m: make(map[int64]model.Pair)}
}

func (s *Memory) Get(ctx context.Context, chatID int64) (model.Pair, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[chatID]
	return p, ok, nil
}

func (s *Memory) Set(ctx context.Context, chatID int64, p model.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = p
	return nil
}
