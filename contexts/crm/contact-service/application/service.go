package application

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	domainerrors "relish/contexts/crm/contact-service/domain/errors"
	"relish/contexts/crm/contact-service/ports"
)

type Service struct {
	Contacts ports.Repository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (s Service) Create(ctx context.Context, input ports.CreateContactInput) (ports.Contact, error) {
	orgID := strings.TrimSpace(input.OrgID)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if orgID == "" || firstName == "" || lastName == "" {
		return ports.Contact{}, domainerrors.ErrInvalidContact
	}
	if email != "" && !isValidEmail(email) {
		return ports.Contact{}, domainerrors.ErrInvalidContact
	}

	// A new primary displaces the previous one; at most one per account.
	if input.IsPrimary {
		if err := s.Contacts.ClearPrimary(ctx, orgID); err != nil {
			return ports.Contact{}, err
		}
	}

	contactID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Contact{}, err
	}
	now := s.Clock.Now().UTC()
	contact := ports.Contact{
		ContactID: contactID,
		OrgID:     orgID,
		FirstName: firstName,
		LastName:  lastName,
		Title:     strings.TrimSpace(input.Title),
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		IsPrimary: input.IsPrimary,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Contacts.CreateContact(ctx, contact); err != nil {
		return ports.Contact{}, err
	}

	s.logger().Info("contact created",
		"event", "contact_created",
		"module", "crm/contact-service",
		"layer", "application",
		"contact_id", contact.ContactID,
		"org_id", contact.OrgID,
	)
	return contact, nil
}

func (s Service) Get(ctx context.Context, contactID string) (ports.Contact, error) {
	return s.Contacts.GetContact(ctx, strings.TrimSpace(contactID))
}

func (s Service) Update(ctx context.Context, contactID string, input ports.UpdateContactInput) (ports.Contact, error) {
	contact, err := s.Contacts.GetContact(ctx, strings.TrimSpace(contactID))
	if err != nil {
		return ports.Contact{}, err
	}

	if firstName := strings.TrimSpace(input.FirstName); firstName != "" {
		contact.FirstName = firstName
	}
	if lastName := strings.TrimSpace(input.LastName); lastName != "" {
		contact.LastName = lastName
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		contact.Title = title
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		if !isValidEmail(email) {
			return ports.Contact{}, domainerrors.ErrInvalidContact
		}
		contact.Email = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		contact.Phone = phone
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		contact.Notes = notes
	}
	if input.IsPrimary != nil {
		if *input.IsPrimary && !contact.IsPrimary {
			if err := s.Contacts.ClearPrimary(ctx, contact.OrgID); err != nil {
				return ports.Contact{}, err
			}
		}
		contact.IsPrimary = *input.IsPrimary
	}
	contact.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Contacts.UpdateContact(ctx, contact); err != nil {
		return ports.Contact{}, err
	}
	return contact, nil
}

func (s Service) Delete(ctx context.Context, contactID string) error {
	if err := s.Contacts.DeleteContact(ctx, strings.TrimSpace(contactID)); err != nil {
		return err
	}
	s.logger().Info("contact deleted",
		"event", "contact_deleted",
		"module", "crm/contact-service",
		"layer", "application",
		"contact_id", strings.TrimSpace(contactID),
	)
	return nil
}

func (s Service) ListByOrg(ctx context.Context, orgID string) ([]ports.Contact, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, domainerrors.ErrInvalidContact
	}
	return s.Contacts.ListContactsByOrg(ctx, orgID)
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func isValidEmail(value string) bool {
	_, err := mail.ParseAddress(value)
	return err == nil
}
