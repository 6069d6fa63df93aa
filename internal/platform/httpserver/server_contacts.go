package httpserver

import (
	"errors"
	"net/http"

	contacterrors "relish/contexts/crm/contact-service/domain/errors"
	contacttransport "relish/contexts/crm/contact-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerContactRoutes() {
	s.protect("POST /api/contacts", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req contacttransport.CreateContactRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed contact payload")
			return nil
		}
		resp, err := s.modules.Contacts.Handler.CreateContactHandler(r.Context(), req)
		if err != nil {
			return s.contactError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	s.protect("GET /api/contacts/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Contacts.Handler.GetContactHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.contactError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/contacts/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req contacttransport.UpdateContactRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed contact payload")
			return nil
		}
		resp, err := s.modules.Contacts.Handler.UpdateContactHandler(r.Context(), r.PathValue("id"), req)
		if err != nil {
			return s.contactError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("DELETE /api/contacts/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		if err := s.modules.Contacts.Handler.DeleteContactHandler(r.Context(), r.PathValue("id")); err != nil {
			return s.contactError(w, err)
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	s.protect("GET /api/organizations/{id}/contacts", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Contacts.Handler.ListContactsByOrgHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.contactError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) contactError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, contacterrors.ErrContactNotFound):
		writeError(w, http.StatusNotFound, "not_found", "contact not found")
	case errors.Is(err, contacterrors.ErrInvalidContact):
		writeBadRequest(w, "invalid contact input")
	default:
		return err
	}
	return nil
}
