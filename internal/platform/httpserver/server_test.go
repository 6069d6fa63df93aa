package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	invoiceservice "relish/contexts/billing/invoice-service"
	contactservice "relish/contexts/crm/contact-service"
	interactionservice "relish/contexts/crm/interaction-service"
	opportunityservice "relish/contexts/crm/opportunity-service"
	organizationservice "relish/contexts/crm/organization-service"
	taskservice "relish/contexts/crm/task-service"
	userservice "relish/contexts/identity-access/user-service"
	identitytransport "relish/contexts/identity-access/user-service/transport/http"
	settingsservice "relish/contexts/internal-ops/settings-service"
	"relish/internal/platform/httpserver/middleware"
)

var testSecret = []byte("server-test-secret")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testModules() Modules {
	logger := quietLogger()
	return Modules{
		Users:         userservice.NewInMemoryModule(testSecret, logger),
		Organizations: organizationservice.NewInMemoryModule(nil, logger),
		Contacts:      contactservice.NewInMemoryModule(nil, logger),
		Interactions:  interactionservice.NewInMemoryModule(nil, logger),
		Tasks:         taskservice.NewInMemoryModule(nil, logger),
		Opportunities: opportunityservice.NewInMemoryModule(nil, logger),
		Invoices:      invoiceservice.NewInMemoryModule(nil, 0.08, logger),
		Settings:      settingsservice.NewInMemoryModule(logger),
	}
}

func newTestServerWithLimits(limits Limits) *Server {
	modules := testModules()
	return New(modules, modules.Users.Authenticator, middleware.NewMemoryCounterStore(), limits, quietLogger())
}

func newTestServer() *Server {
	return newTestServerWithLimits(Limits{
		API:   middleware.RateLimitConfig{MaxAttempts: 1000, Window: time.Minute},
		Login: middleware.RateLimitConfig{MaxAttempts: 100, Window: time.Minute},
	})
}

func doRequest(server *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

// loginAs exchanges seeded credentials for a session token.
func loginAs(t *testing.T, server *Server, email string) string {
	t.Helper()
	rr := doRequest(server, http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"seed-password-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login as %s: expected 200, got %d body=%s", email, rr.Code, rr.Body.String())
	}
	var resp identitytransport.LoginResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return resp.Token
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response body %q: %v", rr.Body.String(), err)
	}
}
