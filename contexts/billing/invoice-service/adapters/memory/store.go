package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "relish/contexts/billing/invoice-service/domain/errors"
	"relish/contexts/billing/invoice-service/ports"
)

type Store struct {
	mu            sync.RWMutex
	invoicesByID  map[string]ports.Invoice
	sequence      int
	numberCounter int64
}

func NewStore(seed []ports.Invoice) *Store {
	store := &Store{invoicesByID: make(map[string]ports.Invoice, len(seed))}
	for _, invoice := range seed {
		store.invoicesByID[invoice.InvoiceID] = invoice
	}
	store.sequence = len(seed)
	store.numberCounter = int64(len(seed))
	return store
}

func (s *Store) CreateInvoice(_ context.Context, invoice ports.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoicesByID[invoice.InvoiceID]; exists {
		return domainerrors.ErrInvalidInvoice
	}
	s.invoicesByID[invoice.InvoiceID] = invoice
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invoiceID string) (ports.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoicesByID[invoiceID]
	if !ok {
		return ports.Invoice{}, domainerrors.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *Store) GetInvoiceByOpportunity(_ context.Context, opportunityID string) (ports.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, invoice := range s.invoicesByID {
		if invoice.OpportunityID != "" && invoice.OpportunityID == opportunityID {
			return invoice, nil
		}
	}
	return ports.Invoice{}, domainerrors.ErrInvoiceNotFound
}

func (s *Store) UpdateInvoice(_ context.Context, invoice ports.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoicesByID[invoice.InvoiceID]; !ok {
		return domainerrors.ErrInvoiceNotFound
	}
	s.invoicesByID[invoice.InvoiceID] = invoice
	return nil
}

func (s *Store) ListInvoices(_ context.Context, filter ports.InvoiceFilter) ([]ports.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Invoice, 0)
	for _, invoice := range s.invoicesByID {
		if filter.OrgID != "" && invoice.OrgID != filter.OrgID {
			continue
		}
		if filter.Status != "" && invoice.Status != filter.Status {
			continue
		}
		items = append(items, invoice)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Number < items[j].Number
	})
	return items, nil
}

func (s *Store) NextInvoiceNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.numberCounter++
	return s.numberCounter, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("invoice_%d", s.sequence), nil
}
