package httpadapter

import (
	"context"
	"log/slog"

	"relish/contexts/internal-ops/settings-service/application"
	"relish/contexts/internal-ops/settings-service/ports"
	httptransport "relish/contexts/internal-ops/settings-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetSettingsHandler(ctx context.Context, userID string) (httptransport.SettingsResponse, error) {
	settings, err := h.Service.Get(ctx, userID)
	if err != nil {
		return httptransport.SettingsResponse{}, err
	}
	return httptransport.SettingsResponse{Settings: mapSettings(settings)}, nil
}

func (h Handler) UpsertSettingsHandler(ctx context.Context, userID string, req httptransport.UpsertSettingsRequest) (httptransport.SettingsResponse, error) {
	settings, err := h.Service.Upsert(ctx, userID, ports.UpsertSettingsInput{
		Timezone:            req.Timezone,
		Currency:            req.Currency,
		EmailTaskReminders:  req.EmailTaskReminders,
		EmailDealUpdates:    req.EmailDealUpdates,
		DefaultPipelineView: req.DefaultPipelineView,
	})
	if err != nil {
		return httptransport.SettingsResponse{}, err
	}
	return httptransport.SettingsResponse{Settings: mapSettings(settings)}, nil
}

func mapSettings(item ports.Settings) httptransport.SettingsDTO {
	return httptransport.SettingsDTO{
		UserID:              item.UserID,
		Timezone:            item.Timezone,
		Currency:            item.Currency,
		EmailTaskReminders:  item.EmailTaskReminders,
		EmailDealUpdates:    item.EmailDealUpdates,
		DefaultPipelineView: item.DefaultPipelineView,
	}
}
