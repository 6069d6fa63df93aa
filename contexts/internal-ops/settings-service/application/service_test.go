package application

import (
	"context"
	"testing"

	"relish/contexts/internal-ops/settings-service/adapters/memory"
	domainerrors "relish/contexts/internal-ops/settings-service/domain/errors"
	"relish/contexts/internal-ops/settings-service/ports"
)

func newService() Service {
	store := memory.NewStore()
	return Service{Settings: store, Clock: store}
}

func TestGetReturnsDefaultsForNewUser(t *testing.T) {
	service := newService()

	settings, err := service.Get(context.Background(), "user_rep_1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if settings.Timezone != "UTC" || settings.Currency != "USD" {
		t.Fatalf("defaults wrong: %+v", settings)
	}
	if settings.DefaultPipelineView != ViewKanban {
		t.Fatalf("default view wrong: %s", settings.DefaultPipelineView)
	}
	if !settings.EmailTaskReminders || !settings.EmailDealUpdates {
		t.Fatalf("notifications should default on: %+v", settings)
	}
}

func TestUpsertPersistsPartialChanges(t *testing.T) {
	service := newService()

	off := false
	saved, err := service.Upsert(context.Background(), "user_rep_1", ports.UpsertSettingsInput{
		Timezone:           "America/Los_Angeles",
		EmailTaskReminders: &off,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if saved.Timezone != "America/Los_Angeles" || saved.EmailTaskReminders {
		t.Fatalf("changes not applied: %+v", saved)
	}
	if saved.Currency != "USD" {
		t.Fatalf("untouched fields should keep defaults: %+v", saved)
	}

	got, err := service.Get(context.Background(), "user_rep_1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Timezone != "America/Los_Angeles" {
		t.Fatalf("settings not persisted: %+v", got)
	}
}

func TestUpsertRejectsBadTimezone(t *testing.T) {
	service := newService()

	if _, err := service.Upsert(context.Background(), "user_rep_1", ports.UpsertSettingsInput{
		Timezone: "Mars/Olympus_Mons",
	}); err != domainerrors.ErrInvalidSettings {
		t.Fatalf("expected invalid settings, got %v", err)
	}
}

func TestUpsertRejectsUnknownView(t *testing.T) {
	service := newService()

	if _, err := service.Upsert(context.Background(), "user_rep_1", ports.UpsertSettingsInput{
		DefaultPipelineView: "spreadsheet",
	}); err != domainerrors.ErrInvalidSettings {
		t.Fatalf("expected invalid settings, got %v", err)
	}
}
