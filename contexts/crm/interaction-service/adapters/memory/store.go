package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "relish/contexts/crm/interaction-service/domain/errors"
	"relish/contexts/crm/interaction-service/ports"
)

type Store struct {
	mu               sync.RWMutex
	interactionsByID map[string]ports.Interaction
	sequence         int
}

func NewStore(seed []ports.Interaction) *Store {
	store := &Store{interactionsByID: make(map[string]ports.Interaction, len(seed))}
	for _, interaction := range seed {
		store.interactionsByID[interaction.InteractionID] = interaction
	}
	store.sequence = len(seed)
	return store
}

func (s *Store) CreateInteraction(_ context.Context, interaction ports.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.interactionsByID[interaction.InteractionID]; exists {
		return domainerrors.ErrInvalidInteraction
	}
	s.interactionsByID[interaction.InteractionID] = interaction
	return nil
}

func (s *Store) GetInteraction(_ context.Context, interactionID string) (ports.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interaction, ok := s.interactionsByID[interactionID]
	if !ok {
		return ports.Interaction{}, domainerrors.ErrInteractionNotFound
	}
	return interaction, nil
}

func (s *Store) UpdateInteraction(_ context.Context, interaction ports.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interactionsByID[interaction.InteractionID]; !ok {
		return domainerrors.ErrInteractionNotFound
	}
	s.interactionsByID[interaction.InteractionID] = interaction
	return nil
}

func (s *Store) DeleteInteraction(_ context.Context, interactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interactionsByID[interactionID]; !ok {
		return domainerrors.ErrInteractionNotFound
	}
	delete(s.interactionsByID, interactionID)
	return nil
}

func (s *Store) ListInteractions(_ context.Context, filter ports.InteractionFilter) ([]ports.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Interaction, 0)
	for _, interaction := range s.interactionsByID {
		if filter.OrgID != "" && interaction.OrgID != filter.OrgID {
			continue
		}
		if filter.Type != "" && interaction.Type != filter.Type {
			continue
		}
		items = append(items, interaction)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("interaction_%d", s.sequence), nil
}
