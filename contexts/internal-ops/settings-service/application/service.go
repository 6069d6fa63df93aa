package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "relish/contexts/internal-ops/settings-service/domain/errors"
	"relish/contexts/internal-ops/settings-service/ports"
)

const (
	ViewKanban = "kanban"
	ViewList   = "list"

	defaultTimezone = "UTC"
	defaultCurrency = "USD"
)

type Service struct {
	Settings ports.Repository
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Get returns the stored settings, or the defaults for a user who has
// never saved any. Defaults are not persisted on read.
func (s Service) Get(ctx context.Context, userID string) (ports.Settings, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.Settings{}, domainerrors.ErrInvalidSettings
	}

	settings, err := s.Settings.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrSettingsNotFound) {
			return defaults(userID), nil
		}
		return ports.Settings{}, err
	}
	return settings, nil
}

func (s Service) Upsert(ctx context.Context, userID string, input ports.UpsertSettingsInput) (ports.Settings, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.Settings{}, domainerrors.ErrInvalidSettings
	}

	settings, err := s.Settings.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrSettingsNotFound) {
			return ports.Settings{}, err
		}
		settings = defaults(userID)
	}

	if tz := strings.TrimSpace(input.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return ports.Settings{}, domainerrors.ErrInvalidSettings
		}
		settings.Timezone = tz
	}
	if currency := strings.ToUpper(strings.TrimSpace(input.Currency)); currency != "" {
		if len(currency) != 3 {
			return ports.Settings{}, domainerrors.ErrInvalidSettings
		}
		settings.Currency = currency
	}
	if input.EmailTaskReminders != nil {
		settings.EmailTaskReminders = *input.EmailTaskReminders
	}
	if input.EmailDealUpdates != nil {
		settings.EmailDealUpdates = *input.EmailDealUpdates
	}
	if view := strings.ToLower(strings.TrimSpace(input.DefaultPipelineView)); view != "" {
		if view != ViewKanban && view != ViewList {
			return ports.Settings{}, domainerrors.ErrInvalidSettings
		}
		settings.DefaultPipelineView = view
	}
	settings.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Settings.SaveSettings(ctx, settings); err != nil {
		return ports.Settings{}, err
	}

	s.logger().Info("settings saved",
		"event", "settings_saved",
		"module", "internal-ops/settings-service",
		"layer", "application",
		"user_id", userID,
	)
	return settings, nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func defaults(userID string) ports.Settings {
	return ports.Settings{
		UserID:              userID,
		Timezone:            defaultTimezone,
		Currency:            defaultCurrency,
		EmailTaskReminders:  true,
		EmailDealUpdates:    true,
		DefaultPipelineView: ViewKanban,
	}
}
