package http

type CreateInteractionRequest struct {
	OrgID      string `json:"org_id"`
	ContactID  string `json:"contact_id"`
	Type       string `json:"type"`
	Subject    string `json:"subject"`
	Notes      string `json:"notes"`
	OccurredAt string `json:"occurred_at"`
	FollowUpAt string `json:"follow_up_at"`
}

type UpdateInteractionRequest struct {
	Subject    string  `json:"subject"`
	Notes      string  `json:"notes"`
	FollowUpAt *string `json:"follow_up_at"`
}

type InteractionDTO struct {
	InteractionID string `json:"interaction_id"`
	OrgID         string `json:"org_id"`
	ContactID     string `json:"contact_id,omitempty"`
	UserID        string `json:"user_id"`
	Type          string `json:"type"`
	Subject       string `json:"subject"`
	Notes         string `json:"notes,omitempty"`
	OccurredAt    string `json:"occurred_at"`
	FollowUpAt    string `json:"follow_up_at,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type InteractionResponse struct {
	Interaction InteractionDTO `json:"interaction"`
}

type ListInteractionsResponse struct {
	Items []InteractionDTO `json:"items"`
}
