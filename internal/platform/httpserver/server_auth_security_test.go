package httpserver

import (
	"net/http"
	"testing"
	"time"

	"relish/internal/platform/httpserver/middleware"
)

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	server := newTestServer()

	rr := doRequest(server, http.MethodGet, "/api/organizations", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}

	var envelope middleware.ErrorEnvelope
	decodeBody(t, rr, &envelope)
	if envelope.Error != "unauthenticated" {
		t.Fatalf("expected unauthenticated envelope, got %q", envelope.Error)
	}
}

func TestProtectedRouteRejectsGarbageToken(t *testing.T) {
	server := newTestServer()

	rr := doRequest(server, http.MethodGet, "/api/organizations", "not-a-jwt", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server := newTestServer()

	rr := doRequest(server, http.MethodPost, "/api/auth/login", "", `{"email":"admin@relish.test","password":"wrong"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginIssuesUsableToken(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "admin@relish.test")

	rr := doRequest(server, http.MethodGet, "/api/auth/me", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		User struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, rr, &resp)
	if resp.User.UserID != "user_admin_1" || resp.User.Role != "admin" {
		t.Fatalf("unexpected identity: %+v", resp.User)
	}
}

func TestRegisterRequiresAdminRole(t *testing.T) {
	server := newTestServer()

	repToken := loginAs(t, server, "rep@relish.test")
	rr := doRequest(server, http.MethodPost, "/api/auth/register", repToken, `{"email":"new@relish.test","name":"New Rep","role":"rep","password":"pass-word-123"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for rep, got %d body=%s", rr.Code, rr.Body.String())
	}

	adminToken := loginAs(t, server, "admin@relish.test")
	rr = doRequest(server, http.MethodPost, "/api/auth/register", adminToken, `{"email":"new@relish.test","name":"New Rep","role":"rep","password":"pass-word-123"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/auth/register", adminToken, `{"email":"new@relish.test","name":"Dupe","role":"rep","password":"pass-word-123"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginThrottledAfterBudget(t *testing.T) {
	server := newTestServerWithLimits(Limits{
		API:   middleware.RateLimitConfig{MaxAttempts: 1000, Window: time.Minute},
		Login: middleware.RateLimitConfig{MaxAttempts: 2, Window: time.Minute},
	})

	body := `{"email":"admin@relish.test","password":"wrong"}`
	for i := 0; i < 2; i++ {
		rr := doRequest(server, http.MethodPost, "/api/auth/login", "", body)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rr.Code)
		}
	}

	rr := doRequest(server, http.MethodPost, "/api/auth/login", "", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after budget, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header on the throttled response")
	}
	var envelope middleware.ErrorEnvelope
	decodeBody(t, rr, &envelope)
	if envelope.Error != "rate_limited" {
		t.Fatalf("expected rate_limited envelope, got %q", envelope.Error)
	}
}

func TestAPIBudgetIsPerUser(t *testing.T) {
	server := newTestServerWithLimits(Limits{
		API:   middleware.RateLimitConfig{MaxAttempts: 2, Window: time.Minute},
		Login: middleware.RateLimitConfig{MaxAttempts: 100, Window: time.Minute},
	})
	adminToken := loginAs(t, server, "admin@relish.test")
	repToken := loginAs(t, server, "rep@relish.test")

	for i := 0; i < 2; i++ {
		if rr := doRequest(server, http.MethodGet, "/api/organizations", adminToken, ""); rr.Code != http.StatusOK {
			t.Fatalf("admin attempt %d: expected 200, got %d", i+1, rr.Code)
		}
	}
	if rr := doRequest(server, http.MethodGet, "/api/organizations", adminToken, ""); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for exhausted admin budget, got %d", rr.Code)
	}

	// The other user's counter is untouched.
	if rr := doRequest(server, http.MethodGet, "/api/organizations", repToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for rep, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMalformedBodyReturnsErrorEnvelope(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "admin@relish.test")

	rr := doRequest(server, http.MethodPost, "/api/organizations", token, `{"name": `)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var envelope middleware.ErrorEnvelope
	decodeBody(t, rr, &envelope)
	if envelope.Error != "invalid_request" {
		t.Fatalf("expected invalid_request envelope, got %q", envelope.Error)
	}
}
