package httpserver

import (
	"errors"
	"net/http"

	settingserrors "relish/contexts/internal-ops/settings-service/domain/errors"
	settingstransport "relish/contexts/internal-ops/settings-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerSettingsRoutes() {
	s.protect("GET /api/settings", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		resp, err := s.modules.Settings.Handler.GetSettingsHandler(r.Context(), identity.UserID)
		if err != nil {
			return s.settingsError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/settings", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		var req settingstransport.UpsertSettingsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed settings payload")
			return nil
		}
		resp, err := s.modules.Settings.Handler.UpsertSettingsHandler(r.Context(), identity.UserID, req)
		if err != nil {
			return s.settingsError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) settingsError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, settingserrors.ErrInvalidSettings):
		writeBadRequest(w, "invalid settings input")
	default:
		return err
	}
	return nil
}
