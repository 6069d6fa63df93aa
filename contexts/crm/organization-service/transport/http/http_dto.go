package http

type ErrorResponse struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

type OrganizationDTO struct {
	OrgID       string `json:"org_id"`
	Name        string `json:"name"`
	Segment     string `json:"segment"`
	Cuisine     string `json:"cuisine,omitempty"`
	AddressLine string `json:"address_line,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Status      string `json:"status"`
	OwnerUserID string `json:"owner_user_id"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Segment     string `json:"segment"`
	Cuisine     string `json:"cuisine"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Notes       string `json:"notes"`
}

type UpdateOrganizationRequest struct {
	Name        string `json:"name"`
	Segment     string `json:"segment"`
	Cuisine     string `json:"cuisine"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Status      string `json:"status"`
	OwnerUserID string `json:"owner_user_id"`
	Notes       string `json:"notes"`
}

type OrganizationResponse struct {
	Organization OrganizationDTO `json:"organization"`
}

type ListOrganizationsResponse struct {
	Items []OrganizationDTO `json:"items"`
}
