package httpserver

import (
	"errors"
	"net/http"

	opperrors "relish/contexts/crm/opportunity-service/domain/errors"
	oppports "relish/contexts/crm/opportunity-service/ports"
	opptransport "relish/contexts/crm/opportunity-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerOpportunityRoutes() {
	s.protect("POST /api/opportunities", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		var req opptransport.CreateOpportunityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed opportunity payload")
			return nil
		}
		resp, err := s.modules.Opportunities.Handler.CreateOpportunityHandler(r.Context(), identity.UserID, req)
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	s.protect("GET /api/opportunities", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		query := r.URL.Query()
		resp, err := s.modules.Opportunities.Handler.ListOpportunitiesHandler(r.Context(), oppports.OpportunityFilter{
			Stage:       query.Get("stage"),
			OwnerUserID: query.Get("owner"),
			OrgID:       query.Get("org"),
		})
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	// Summary before {id} so the literal segment wins over the wildcard.
	s.protect("GET /api/opportunities/summary", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Opportunities.Handler.PipelineSummaryHandler(r.Context(), r.URL.Query().Get("owner"))
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("GET /api/opportunities/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Opportunities.Handler.GetOpportunityHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/opportunities/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req opptransport.UpdateOpportunityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed opportunity payload")
			return nil
		}
		resp, err := s.modules.Opportunities.Handler.UpdateOpportunityHandler(r.Context(), r.PathValue("id"), req)
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("POST /api/opportunities/{id}/advance", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		var req opptransport.AdvanceOpportunityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed advance payload")
			return nil
		}
		resp, err := s.modules.Opportunities.Handler.AdvanceOpportunityHandler(r.Context(), r.PathValue("id"), identity.UserID, req)
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("GET /api/opportunities/{id}/history", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Opportunities.Handler.StageHistoryHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.opportunityError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) opportunityError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, opperrors.ErrOpportunityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "opportunity not found")
	case errors.Is(err, opperrors.ErrInvalidOpportunity):
		writeBadRequest(w, "invalid opportunity input")
	case errors.Is(err, opperrors.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "invalid_transition", "stage transition not allowed")
	case errors.Is(err, opperrors.ErrOpportunityClosed):
		writeError(w, http.StatusConflict, "opportunity_closed", "opportunity is already closed")
	case errors.Is(err, opperrors.ErrLostReasonRequired):
		writeBadRequest(w, "a lost reason is required")
	default:
		return err
	}
	return nil
}
