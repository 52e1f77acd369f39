package store

import (
	"context"
	"sync"

	models "github.com/tripventure/flightdraft/internal"
)

// MemoryStore keeps drafts in a process-local map. It backs tests and dev
// mode; redis or postgres serve real deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*models.BookingDraft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]*models.BookingDraft)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[sessionID]
	if !ok {
		return models.NewBookingDraft(), nil
	}
	return draft.Clone(), nil
}

func (s *MemoryStore) MergePatch(ctx context.Context, sessionID string, patch models.DraftPatch) (*models.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[sessionID]
	if !ok {
		draft = models.NewBookingDraft()
		s.drafts[sessionID] = draft
	}
	draft.Apply(patch)
	return draft.Clone(), nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, sessionID)
	return nil
}
