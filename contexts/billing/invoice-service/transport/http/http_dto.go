package http

type LineItemDTO struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

type CreateInvoiceRequest struct {
	OrgID         string        `json:"org_id"`
	OpportunityID string        `json:"opportunity_id"`
	LineItems     []LineItemDTO `json:"line_items"`
}

type UpdateInvoiceRequest struct {
	LineItems []LineItemDTO `json:"line_items"`
}

type InvoiceDTO struct {
	InvoiceID     string        `json:"invoice_id"`
	OrgID         string        `json:"org_id"`
	OpportunityID string        `json:"opportunity_id,omitempty"`
	Number        string        `json:"number"`
	LineItems     []LineItemDTO `json:"line_items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Status        string        `json:"status"`
	IssuedAt      string        `json:"issued_at,omitempty"`
	DueAt         string        `json:"due_at,omitempty"`
	PaidAt        string        `json:"paid_at,omitempty"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

type InvoiceResponse struct {
	Invoice InvoiceDTO `json:"invoice"`
}

type ListInvoicesResponse struct {
	Items []InvoiceDTO `json:"items"`
}
