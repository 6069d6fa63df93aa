package httpserver

import (
	"errors"
	"net/http"

	usererrors "relish/contexts/identity-access/user-service/domain/errors"
	identitytransport "relish/contexts/identity-access/user-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerAuthRoutes() {
	// Login is public; the tight window throttles credential stuffing.
	s.mux.HandleFunc("POST /api/auth/login", s.pipeline.Throttle("POST /api/auth/login", s.limits.Login, func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req identitytransport.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed login payload")
			return nil
		}
		resp, err := s.modules.Users.Handler.LoginHandler(r.Context(), req)
		if err != nil {
			return s.authError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	}))

	s.protect("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		if identity.Role != "admin" {
			writeError(w, http.StatusForbidden, "forbidden", "only admins can register users")
			return nil
		}
		var req identitytransport.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed register payload")
			return nil
		}
		resp, err := s.modules.Users.Handler.RegisterHandler(r.Context(), req)
		if err != nil {
			return s.authError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	s.protect("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		resp, err := s.modules.Users.Handler.MeHandler(r.Context(), identity.UserID)
		if err != nil {
			return s.authError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) authError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, usererrors.ErrInvalidCredentials), errors.Is(err, usererrors.ErrUserInactive):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
	case errors.Is(err, usererrors.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", "a user with this email already exists")
	case errors.Is(err, usererrors.ErrInvalidUserInput):
		writeBadRequest(w, "invalid user input")
	case errors.Is(err, usererrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", "user not found")
	default:
		return err
	}
	return nil
}
