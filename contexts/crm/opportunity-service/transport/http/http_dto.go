package http

type CreateOpportunityRequest struct {
	OrgID           string   `json:"org_id"`
	ContactID       string   `json:"contact_id"`
	Title           string   `json:"title"`
	ProductLines    []string `json:"product_lines"`
	EstMonthlyValue float64  `json:"est_monthly_value"`
	ExpectedCloseAt string   `json:"expected_close_at"`
}

type UpdateOpportunityRequest struct {
	ContactID       string   `json:"contact_id"`
	Title           string   `json:"title"`
	ProductLines    []string `json:"product_lines"`
	EstMonthlyValue *float64 `json:"est_monthly_value"`
	Probability     *int     `json:"probability"`
	ExpectedCloseAt string   `json:"expected_close_at"`
}

type AdvanceOpportunityRequest struct {
	Stage string `json:"stage"`
	Note  string `json:"note"`
}

type OpportunityDTO struct {
	OpportunityID   string   `json:"opportunity_id"`
	OrgID           string   `json:"org_id"`
	ContactID       string   `json:"contact_id,omitempty"`
	OwnerUserID     string   `json:"owner_user_id"`
	Title           string   `json:"title"`
	ProductLines    []string `json:"product_lines,omitempty"`
	EstMonthlyValue float64  `json:"est_monthly_value"`
	Stage           string   `json:"stage"`
	Probability     int      `json:"probability"`
	ExpectedCloseAt string   `json:"expected_close_at,omitempty"`
	ClosedAt        string   `json:"closed_at,omitempty"`
	LostReason      string   `json:"lost_reason,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type StageChangeDTO struct {
	ChangeID  string `json:"change_id"`
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
	ChangedBy string `json:"changed_by,omitempty"`
	Note      string `json:"note,omitempty"`
	ChangedAt string `json:"changed_at"`
}

type StageSummaryDTO struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type OpportunityResponse struct {
	Opportunity OpportunityDTO `json:"opportunity"`
}

type ListOpportunitiesResponse struct {
	Items []OpportunityDTO `json:"items"`
}

type StageHistoryResponse struct {
	Items []StageChangeDTO `json:"items"`
}

type PipelineSummaryResponse struct {
	Items []StageSummaryDTO `json:"items"`
}
