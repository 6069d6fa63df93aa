package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "relish/contexts/crm/organization-service/domain/errors"
	"relish/contexts/crm/organization-service/ports"
)

type Store struct {
	mu       sync.RWMutex
	orgsByID map[string]ports.Organization
	sequence int
}

func NewStore(seed []ports.Organization) *Store {
	store := &Store{orgsByID: make(map[string]ports.Organization, len(seed))}
	for _, org := range seed {
		store.orgsByID[org.OrgID] = org
	}
	store.sequence = len(seed)
	return store
}

func (s *Store) CreateOrganization(_ context.Context, org ports.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgsByID[org.OrgID]; exists {
		return domainerrors.ErrInvalidOrganization
	}
	s.orgsByID[org.OrgID] = org
	return nil
}

func (s *Store) GetOrganization(_ context.Context, orgID string) (ports.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgsByID[orgID]
	if !ok {
		return ports.Organization{}, domainerrors.ErrOrganizationNotFound
	}
	return org, nil
}

func (s *Store) UpdateOrganization(_ context.Context, org ports.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgsByID[org.OrgID]; !ok {
		return domainerrors.ErrOrganizationNotFound
	}
	s.orgsByID[org.OrgID] = org
	return nil
}

func (s *Store) ListOrganizations(_ context.Context, filter ports.OrganizationFilter) ([]ports.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Organization, 0, len(s.orgsByID))
	for _, org := range s.orgsByID {
		if filter.Segment != "" && org.Segment != filter.Segment {
			continue
		}
		if filter.Status != "" && org.Status != filter.Status {
			continue
		}
		if filter.OwnerUserID != "" && org.OwnerUserID != filter.OwnerUserID {
			continue
		}
		if filter.City != "" && !strings.EqualFold(org.City, filter.City) {
			continue
		}
		if filter.NameQuery != "" && !strings.Contains(strings.ToLower(org.Name), strings.ToLower(filter.NameQuery)) {
			continue
		}
		items = append(items, org)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
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
	return fmt.Sprintf("org_%d", s.sequence), nil
}
