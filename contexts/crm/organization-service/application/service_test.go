package application

import (
	"context"
	"testing"

	"relish/contexts/crm/organization-service/adapters/memory"
	domainerrors "relish/contexts/crm/organization-service/domain/errors"
	"relish/contexts/crm/organization-service/ports"
)

func newService() Service {
	store := memory.NewStore(nil)
	return Service{Orgs: store, Clock: store, IDGen: store}
}

func TestCreateOrganizationDefaults(t *testing.T) {
	service := newService()

	org, err := service.Create(context.Background(), "user_rep_1", ports.CreateOrganizationInput{
		Name:    "Harbor Bistro",
		Segment: "Restaurant",
		City:    "Portland",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if org.Status != StatusProspect {
		t.Fatalf("new account should start as prospect, got %s", org.Status)
	}
	if org.Segment != "restaurant" {
		t.Fatalf("segment not normalized: %s", org.Segment)
	}
	if org.OwnerUserID != "user_rep_1" {
		t.Fatalf("owner not recorded: %s", org.OwnerUserID)
	}
}

func TestCreateOrganizationRejectsUnknownSegment(t *testing.T) {
	service := newService()

	if _, err := service.Create(context.Background(), "user_rep_1", ports.CreateOrganizationInput{
		Name:    "Harbor Bistro",
		Segment: "food-truck-fleet",
	}); err != domainerrors.ErrInvalidOrganization {
		t.Fatalf("expected invalid organization, got %v", err)
	}
}

func TestDeactivateKeepsRecord(t *testing.T) {
	service := newService()

	org, err := service.Create(context.Background(), "user_rep_1", ports.CreateOrganizationInput{
		Name:    "Harbor Bistro",
		Segment: "restaurant",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deactivated, err := service.Deactivate(context.Background(), org.OrgID)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if deactivated.Status != StatusInactive {
		t.Fatalf("expected inactive, got %s", deactivated.Status)
	}

	got, err := service.Get(context.Background(), org.OrgID)
	if err != nil {
		t.Fatalf("deactivated account disappeared: %v", err)
	}
	if got.Name != "Harbor Bistro" {
		t.Fatalf("history lost on deactivate: %+v", got)
	}
}

func TestListOrganizationsFilters(t *testing.T) {
	service := newService()

	for _, spec := range []struct {
		name    string
		segment string
		city    string
	}{
		{"Harbor Bistro", "restaurant", "Portland"},
		{"Morning Roast", "cafe", "Portland"},
		{"Valley Produce", "distributor", "Salem"},
	} {
		if _, err := service.Create(context.Background(), "user_rep_1", ports.CreateOrganizationInput{
			Name:    spec.name,
			Segment: spec.segment,
			City:    spec.city,
		}); err != nil {
			t.Fatalf("create %s failed: %v", spec.name, err)
		}
	}

	cafes, err := service.List(context.Background(), ports.OrganizationFilter{Segment: "cafe"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cafes) != 1 || cafes[0].Name != "Morning Roast" {
		t.Fatalf("segment filter wrong: %+v", cafes)
	}

	portland, err := service.List(context.Background(), ports.OrganizationFilter{City: "portland"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(portland) != 2 {
		t.Fatalf("city filter wrong, got %d items", len(portland))
	}

	byName, err := service.List(context.Background(), ports.OrganizationFilter{NameQuery: "roast"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Morning Roast" {
		t.Fatalf("name search wrong: %+v", byName)
	}
}
