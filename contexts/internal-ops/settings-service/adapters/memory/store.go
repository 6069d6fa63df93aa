package memory

import (
	"context"
	"sync"
	"time"

	domainerrors "relish/contexts/internal-ops/settings-service/domain/errors"
	"relish/contexts/internal-ops/settings-service/ports"
)

type Store struct {
	mu           sync.RWMutex
	settingsByID map[string]ports.Settings
}

func NewStore() *Store {
	return &Store{settingsByID: make(map[string]ports.Settings)}
}

func (s *Store) GetSettings(_ context.Context, userID string) (ports.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settingsByID[userID]
	if !ok {
		return ports.Settings{}, domainerrors.ErrSettingsNotFound
	}
	return settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings ports.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settingsByID[settings.UserID] = settings
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
