package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "relish/contexts/crm/contact-service/domain/errors"
	"relish/contexts/crm/contact-service/ports"
)

type Store struct {
	mu           sync.RWMutex
	contactsByID map[string]ports.Contact
	sequence     int
}

func NewStore(seed []ports.Contact) *Store {
	store := &Store{contactsByID: make(map[string]ports.Contact, len(seed))}
	for _, contact := range seed {
		store.contactsByID[contact.ContactID] = contact
	}
	store.sequence = len(seed)
	return store
}

func (s *Store) CreateContact(_ context.Context, contact ports.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contactsByID[contact.ContactID]; exists {
		return domainerrors.ErrInvalidContact
	}
	s.contactsByID[contact.ContactID] = contact
	return nil
}

func (s *Store) GetContact(_ context.Context, contactID string) (ports.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contactsByID[contactID]
	if !ok {
		return ports.Contact{}, domainerrors.ErrContactNotFound
	}
	return contact, nil
}

func (s *Store) UpdateContact(_ context.Context, contact ports.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contactsByID[contact.ContactID]; !ok {
		return domainerrors.ErrContactNotFound
	}
	s.contactsByID[contact.ContactID] = contact
	return nil
}

func (s *Store) DeleteContact(_ context.Context, contactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contactsByID[contactID]; !ok {
		return domainerrors.ErrContactNotFound
	}
	delete(s.contactsByID, contactID)
	return nil
}

func (s *Store) ListContactsByOrg(_ context.Context, orgID string) ([]ports.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Contact, 0)
	for _, contact := range s.contactsByID {
		if contact.OrgID == orgID {
			items = append(items, contact)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsPrimary != items[j].IsPrimary {
			return items[i].IsPrimary
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ClearPrimary(_ context.Context, orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, contact := range s.contactsByID {
		if contact.OrgID == orgID && contact.IsPrimary {
			contact.IsPrimary = false
			s.contactsByID[id] = contact
		}
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("contact_%d", s.sequence), nil
}
