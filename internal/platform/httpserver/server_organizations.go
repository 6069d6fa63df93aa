package httpserver

import (
	"errors"
	"net/http"

	orgerrors "relish/contexts/crm/organization-service/domain/errors"
	orgports "relish/contexts/crm/organization-service/ports"
	orgtransport "relish/contexts/crm/organization-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerOrganizationRoutes() {
	s.protect("POST /api/organizations", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		var req orgtransport.CreateOrganizationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed organization payload")
			return nil
		}
		resp, err := s.modules.Organizations.Handler.CreateOrganizationHandler(r.Context(), identity.UserID, req)
		if err != nil {
			return s.organizationError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	s.protect("GET /api/organizations", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		query := r.URL.Query()
		resp, err := s.modules.Organizations.Handler.ListOrganizationsHandler(r.Context(), orgports.OrganizationFilter{
			Segment:     query.Get("segment"),
			Status:      query.Get("status"),
			OwnerUserID: query.Get("owner"),
			City:        query.Get("city"),
			NameQuery:   query.Get("q"),
		})
		if err != nil {
			return s.organizationError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("GET /api/organizations/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Organizations.Handler.GetOrganizationHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.organizationError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/organizations/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req orgtransport.UpdateOrganizationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed organization payload")
			return nil
		}
		resp, err := s.modules.Organizations.Handler.UpdateOrganizationHandler(r.Context(), r.PathValue("id"), req)
		if err != nil {
			return s.organizationError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	// Delete is a soft status change; the record stays queryable.
	s.protect("DELETE /api/organizations/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Organizations.Handler.DeactivateOrganizationHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.organizationError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) organizationError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, orgerrors.ErrOrganizationNotFound):
		writeError(w, http.StatusNotFound, "not_found", "organization not found")
	case errors.Is(err, orgerrors.ErrInvalidOrganization):
		writeBadRequest(w, "invalid organization input")
	case errors.Is(err, orgerrors.ErrOrganizationInactive):
		writeError(w, http.StatusConflict, "organization_inactive", "organization is inactive")
	default:
		return err
	}
	return nil
}
