package ports

import (
	"context"
	"time"
)

type Settings struct {
	UserID              string
	Timezone            string
	Currency            string
	EmailTaskReminders  bool
	EmailDealUpdates    bool
	DefaultPipelineView string
	UpdatedAt           time.Time
}

type UpsertSettingsInput struct {
	Timezone            string
	Currency            string
	EmailTaskReminders  *bool
	EmailDealUpdates    *bool
	DefaultPipelineView string
}

type Repository interface {
	GetSettings(ctx context.Context, userID string) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}

type Clock interface {
	Now() time.Time
}
