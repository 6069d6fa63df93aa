package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/crm/contact-service/application"
	"relish/contexts/crm/contact-service/ports"
	httptransport "relish/contexts/crm/contact-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateContactHandler(ctx context.Context, req httptransport.CreateContactRequest) (httptransport.ContactResponse, error) {
	contact, err := h.Service.Create(ctx, ports.CreateContactInput{
		OrgID:     req.OrgID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Title:     req.Title,
		Email:     req.Email,
		Phone:     req.Phone,
		IsPrimary: req.IsPrimary,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(contact)}, nil
}

func (h Handler) GetContactHandler(ctx context.Context, contactID string) (httptransport.ContactResponse, error) {
	contact, err := h.Service.Get(ctx, contactID)
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(contact)}, nil
}

func (h Handler) UpdateContactHandler(ctx context.Context, contactID string, req httptransport.UpdateContactRequest) (httptransport.ContactResponse, error) {
	contact, err := h.Service.Update(ctx, contactID, ports.UpdateContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Title:     req.Title,
		Email:     req.Email,
		Phone:     req.Phone,
		IsPrimary: req.IsPrimary,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(contact)}, nil
}

func (h Handler) DeleteContactHandler(ctx context.Context, contactID string) error {
	return h.Service.Delete(ctx, contactID)
}

func (h Handler) ListContactsByOrgHandler(ctx context.Context, orgID string) (httptransport.ListContactsResponse, error) {
	items, err := h.Service.ListByOrg(ctx, orgID)
	if err != nil {
		return httptransport.ListContactsResponse{}, err
	}
	result := make([]httptransport.ContactDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapContact(item))
	}
	return httptransport.ListContactsResponse{Items: result}, nil
}

func mapContact(item ports.Contact) httptransport.ContactDTO {
	return httptransport.ContactDTO{
		ContactID: item.ContactID,
		OrgID:     item.OrgID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Title:     item.Title,
		Email:     item.Email,
		Phone:     item.Phone,
		IsPrimary: item.IsPrimary,
		Notes:     item.Notes,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
}
