package application

import (
	"context"
	"testing"

	"relish/contexts/crm/contact-service/adapters/memory"
	domainerrors "relish/contexts/crm/contact-service/domain/errors"
	"relish/contexts/crm/contact-service/ports"
)

func newService() Service {
	store := memory.NewStore(nil)
	return Service{Contacts: store, Clock: store, IDGen: store}
}

func TestCreateContactRequiresNames(t *testing.T) {
	service := newService()

	if _, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Dana",
	}); err != domainerrors.ErrInvalidContact {
		t.Fatalf("expected invalid contact, got %v", err)
	}
}

func TestCreateContactRejectsBadEmail(t *testing.T) {
	service := newService()

	if _, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Dana",
		LastName:  "Ruiz",
		Email:     "not-an-address",
	}); err != domainerrors.ErrInvalidContact {
		t.Fatalf("expected invalid contact, got %v", err)
	}
}

func TestOnlyOnePrimaryContactPerOrg(t *testing.T) {
	service := newService()

	first, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Dana",
		LastName:  "Ruiz",
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Theo",
		LastName:  "Park",
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !second.IsPrimary {
		t.Fatalf("new contact should be primary")
	}

	demoted, err := service.Get(context.Background(), first.ContactID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if demoted.IsPrimary {
		t.Fatalf("previous primary should have been demoted")
	}
}

func TestPromoteContactDemotesCurrentPrimary(t *testing.T) {
	service := newService()

	first, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Dana",
		LastName:  "Ruiz",
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Theo",
		LastName:  "Park",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	promote := true
	updated, err := service.Update(context.Background(), second.ContactID, ports.UpdateContactInput{IsPrimary: &promote})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsPrimary {
		t.Fatalf("contact was not promoted")
	}

	demoted, err := service.Get(context.Background(), first.ContactID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if demoted.IsPrimary {
		t.Fatalf("old primary kept its flag")
	}
}

func TestListContactsScopedToOrg(t *testing.T) {
	service := newService()

	for _, spec := range []struct {
		orgID     string
		firstName string
	}{
		{"org_1", "Dana"},
		{"org_1", "Theo"},
		{"org_2", "Mira"},
	} {
		if _, err := service.Create(context.Background(), ports.CreateContactInput{
			OrgID:     spec.orgID,
			FirstName: spec.firstName,
			LastName:  "Tester",
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	items, err := service.ListByOrg(context.Background(), "org_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 contacts for org_1, got %d", len(items))
	}
}

func TestDeleteContactRemovesRecord(t *testing.T) {
	service := newService()

	contact, err := service.Create(context.Background(), ports.CreateContactInput{
		OrgID:     "org_1",
		FirstName: "Dana",
		LastName:  "Ruiz",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Delete(context.Background(), contact.ContactID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := service.Get(context.Background(), contact.ContactID); err != domainerrors.ErrContactNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
