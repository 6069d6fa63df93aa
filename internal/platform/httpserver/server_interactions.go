package httpserver

import (
	"errors"
	"net/http"

	interactionerrors "relish/contexts/crm/interaction-service/domain/errors"
	interactiontransport "relish/contexts/crm/interaction-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerInteractionRoutes() {
	s.protect("POST /api/interactions", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		var req interactiontransport.CreateInteractionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed interaction payload")
			return nil
		}
		resp, err := s.modules.Interactions.Handler.CreateInteractionHandler(r.Context(), identity.UserID, req)
		if err != nil {
			return s.interactionError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	s.protect("GET /api/interactions/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Interactions.Handler.GetInteractionHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.interactionError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/interactions/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req interactiontransport.UpdateInteractionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed interaction payload")
			return nil
		}
		resp, err := s.modules.Interactions.Handler.UpdateInteractionHandler(r.Context(), r.PathValue("id"), req)
		if err != nil {
			return s.interactionError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("DELETE /api/interactions/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		if err := s.modules.Interactions.Handler.DeleteInteractionHandler(r.Context(), r.PathValue("id")); err != nil {
			return s.interactionError(w, err)
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	s.protect("GET /api/organizations/{id}/interactions", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Interactions.Handler.ListInteractionsByOrgHandler(r.Context(), r.PathValue("id"), r.URL.Query().Get("type"))
		if err != nil {
			return s.interactionError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) interactionError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, interactionerrors.ErrInteractionNotFound):
		writeError(w, http.StatusNotFound, "not_found", "interaction not found")
	case errors.Is(err, interactionerrors.ErrInvalidInteraction):
		writeBadRequest(w, "invalid interaction input")
	default:
		return err
	}
	return nil
}
