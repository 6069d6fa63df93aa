package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	invoiceservice "relish/contexts/billing/invoice-service"
	contactservice "relish/contexts/crm/contact-service"
	interactionservice "relish/contexts/crm/interaction-service"
	opportunityservice "relish/contexts/crm/opportunity-service"
	organizationservice "relish/contexts/crm/organization-service"
	taskservice "relish/contexts/crm/task-service"
	userservice "relish/contexts/identity-access/user-service"
	settingsservice "relish/contexts/internal-ops/settings-service"
	_ "relish/internal/platform/httpserver/docs"
	"relish/internal/platform/httpserver/middleware"
)

const maxRequestBody = 1 << 20

var errBadRequestBody = errors.New("malformed request body")

// Modules collects the bounded-context handlers the server exposes.
type Modules struct {
	Users         userservice.Module
	Organizations organizationservice.Module
	Contacts      contactservice.Module
	Interactions  interactionservice.Module
	Tasks         taskservice.Module
	Opportunities opportunityservice.Module
	Invoices      invoiceservice.Module
	Settings      settingsservice.Module
}

// Limits carries the per-route-group rate budgets. Login gets its own,
// much tighter, budget.
type Limits struct {
	API   middleware.RateLimitConfig
	Login middleware.RateLimitConfig
}

type Server struct {
	mux      *http.ServeMux
	pipeline *middleware.Pipeline
	modules  Modules
	limits   Limits
	logger   *slog.Logger
}

func New(modules Modules, auth middleware.Authenticator, counters middleware.CounterStore, limits Limits, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mux:      http.NewServeMux(),
		pipeline: &middleware.Pipeline{Auth: auth, Counters: counters, Logger: logger},
		modules:  modules,
		limits:   limits,
		logger:   logger,
	}

	s.registerAuthRoutes()
	s.registerOrganizationRoutes()
	s.registerContactRoutes()
	s.registerInteractionRoutes()
	s.registerTaskRoutes()
	s.registerOpportunityRoutes()
	s.registerInvoiceRoutes()
	s.registerSettingsRoutes()

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// protect registers a route wrapped by the full pipeline under the default
// API budget.
func (s *Server) protect(pattern string, next middleware.Handler) {
	s.mux.HandleFunc(pattern, s.pipeline.Protect(pattern, s.limits.API, next))
}

func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return errBadRequestBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errBadRequestBody
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, middleware.ErrorEnvelope{Error: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}

// queryBool reports whether a query flag is set to a truthy value.
func queryBool(r *http.Request, key string) bool {
	switch r.URL.Query().Get(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}
