package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "relish/contexts/crm/opportunity-service/domain/errors"
	"relish/contexts/crm/opportunity-service/ports"
	"relish/internal/shared/outbox"
)

type Store struct {
	mu           sync.RWMutex
	oppsByID     map[string]ports.Opportunity
	historyByOpp map[string][]ports.StageChange
	outboxRows   []outbox.Message
	sequence     int
}

func NewStore(seed []ports.Opportunity) *Store {
	store := &Store{
		oppsByID:     make(map[string]ports.Opportunity, len(seed)),
		historyByOpp: make(map[string][]ports.StageChange),
	}
	for _, opp := range seed {
		store.oppsByID[opp.OpportunityID] = opp
	}
	store.sequence = len(seed)
	return store
}

func (s *Store) CreateOpportunity(_ context.Context, opp ports.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.oppsByID[opp.OpportunityID]; exists {
		return domainerrors.ErrInvalidOpportunity
	}
	s.oppsByID[opp.OpportunityID] = opp
	return nil
}

func (s *Store) GetOpportunity(_ context.Context, opportunityID string) (ports.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opp, ok := s.oppsByID[opportunityID]
	if !ok {
		return ports.Opportunity{}, domainerrors.ErrOpportunityNotFound
	}
	return opp, nil
}

func (s *Store) UpdateOpportunity(_ context.Context, opp ports.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.oppsByID[opp.OpportunityID]; !ok {
		return domainerrors.ErrOpportunityNotFound
	}
	s.oppsByID[opp.OpportunityID] = opp
	return nil
}

func (s *Store) ListOpportunities(_ context.Context, filter ports.OpportunityFilter) ([]ports.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Opportunity, 0)
	for _, opp := range s.oppsByID {
		if filter.Stage != "" && opp.Stage != filter.Stage {
			continue
		}
		if filter.OwnerUserID != "" && opp.OwnerUserID != filter.OwnerUserID {
			continue
		}
		if filter.OrgID != "" && opp.OrgID != filter.OrgID {
			continue
		}
		items = append(items, opp)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListStageHistory(_ context.Context, opportunityID string) ([]ports.StageChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.historyByOpp[opportunityID]
	result := make([]ports.StageChange, len(history))
	copy(result, history)
	return result, nil
}

func (s *Store) PipelineSummary(_ context.Context, ownerUserID string) ([]ports.StageSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStage := make(map[string]*ports.StageSummary)
	for _, opp := range s.oppsByID {
		if ownerUserID != "" && opp.OwnerUserID != ownerUserID {
			continue
		}
		summary, ok := byStage[opp.Stage]
		if !ok {
			summary = &ports.StageSummary{Stage: opp.Stage}
			byStage[opp.Stage] = summary
		}
		summary.Count++
		summary.Value += opp.EstMonthlyValue
	}

	items := make([]ports.StageSummary, 0, len(byStage))
	for _, summary := range byStage {
		items = append(items, *summary)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Stage < items[j].Stage
	})
	return items, nil
}

func (s *Store) RecordTransition(_ context.Context, opp ports.Opportunity, change ports.StageChange, msg *outbox.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.oppsByID[opp.OpportunityID]; !ok {
		return domainerrors.ErrOpportunityNotFound
	}
	s.oppsByID[opp.OpportunityID] = opp
	s.historyByOpp[opp.OpportunityID] = append(s.historyByOpp[opp.OpportunityID], change)
	if msg != nil {
		s.outboxRows = append(s.outboxRows, *msg)
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]outbox.Message, 0)
	for _, row := range s.outboxRows {
		if row.Status != outbox.StatusPending {
			continue
		}
		items = append(items, row)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.outboxRows {
		if row.OutboxID == outboxID {
			published := at.UTC()
			s.outboxRows[i].Status = outbox.StatusPublished
			s.outboxRows[i].PublishedAt = &published
			return nil
		}
	}
	return fmt.Errorf("outbox row %s not found", outboxID)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("opp_%d", s.sequence), nil
}
