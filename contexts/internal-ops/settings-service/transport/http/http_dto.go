package http

type UpsertSettingsRequest struct {
	Timezone            string `json:"timezone"`
	Currency            string `json:"currency"`
	EmailTaskReminders  *bool  `json:"email_task_reminders"`
	EmailDealUpdates    *bool  `json:"email_deal_updates"`
	DefaultPipelineView string `json:"default_pipeline_view"`
}

type SettingsDTO struct {
	UserID              string `json:"user_id"`
	Timezone            string `json:"timezone"`
	Currency            string `json:"currency"`
	EmailTaskReminders  bool   `json:"email_task_reminders"`
	EmailDealUpdates    bool   `json:"email_deal_updates"`
	DefaultPipelineView string `json:"default_pipeline_view"`
}

type SettingsResponse struct {
	Settings SettingsDTO `json:"settings"`
}
