package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainerrors "relish/contexts/identity-access/user-service/domain/errors"
	"relish/contexts/identity-access/user-service/ports"
)

// Store keeps users in memory for tests and local runs. It also implements
// Clock and IDGenerator so a module can be wired from the store alone.
type Store struct {
	mu            sync.RWMutex
	usersByID     map[string]ports.User
	userIDByEmail map[string]string
	sequence      int
}

func NewStore() *Store {
	store := &Store{
		usersByID:     make(map[string]ports.User),
		userIDByEmail: make(map[string]string),
	}
	store.seed()
	return store
}

func (s *Store) seed() {
	now := time.Now().UTC().Add(-30 * 24 * time.Hour)
	hash, _ := bcrypt.GenerateFromPassword([]byte("seed-password-1"), bcrypt.MinCost)
	seedUsers := []ports.User{
		{UserID: "user_admin_1", Email: "admin@relish.test", Name: "Ada Admin", Role: "admin", PasswordHash: string(hash), Status: "active", CreatedAt: now, UpdatedAt: now},
		{UserID: "user_rep_1", Email: "rep@relish.test", Name: "Rae Rep", Role: "rep", PasswordHash: string(hash), Status: "active", CreatedAt: now, UpdatedAt: now},
	}
	for _, user := range seedUsers {
		s.usersByID[user.UserID] = user
		s.userIDByEmail[user.Email] = user.UserID
	}
	s.sequence = len(seedUsers)
}

func (s *Store) CreateUser(_ context.Context, user ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, exists := s.userIDByEmail[email]; exists {
		return domainerrors.ErrEmailTaken
	}
	s.usersByID[user.UserID] = user
	s.userIDByEmail[email] = user.UserID
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.userIDByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return s.usersByID[userID], nil
}

func (s *Store) UpdateUser(_ context.Context, user ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByID[user.UserID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	s.usersByID[user.UserID] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.User, 0, len(s.usersByID))
	for _, user := range s.usersByID {
		items = append(items, user)
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("user_%d", s.sequence), nil
}
