package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// Handler is a domain handler wrapped by the pipeline. It either writes its
// own response (including handler-local 400s) and returns nil, or returns an
// error to signal an unexpected failure without having written anything.
type Handler func(w http.ResponseWriter, r *http.Request, identity Identity) error

// Pipeline composes the three request stages every protected route shares:
// authentication, rate limiting, error normalization. Stage order is fixed
// and short-circuits are hard: once a stage produces an error response, no
// later stage runs.
type Pipeline struct {
	Auth     Authenticator
	Counters CounterStore
	Logger   *slog.Logger
}

// ErrorEnvelope is the uniform body of every pipeline-generated error.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Protect wraps a domain handler with all three stages.
func (p *Pipeline) Protect(route string, limit RateLimitConfig, next Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := p.Auth.Authenticate(r)
		if err != nil {
			p.logger().Warn("request rejected: unauthenticated",
				"event", "pipeline_unauthenticated",
				"module", "internal/platform/httpserver/middleware",
				"layer", "platform",
				"route", route,
				"reason", err.Error(),
			)
			writeEnvelope(w, http.StatusUnauthorized, ErrorEnvelope{
				Error:   "unauthenticated",
				Message: "a valid session is required",
			})
			return
		}

		key := identity.UserID
		if key == "" {
			key = clientKey(r)
		}
		if !p.admit(w, r, route, key, limit) {
			return
		}

		p.invoke(w, r.WithContext(WithIdentity(r.Context(), identity)), route, identity, next)
	}
}

// Throttle wraps a public route (login and friends) with the rate-limit and
// error-normalization stages only; the counter is keyed by request origin.
func (p *Pipeline) Throttle(route string, limit RateLimitConfig, next Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.admit(w, r, route, clientKey(r), limit) {
			return
		}
		p.invoke(w, r, route, Identity{}, next)
	}
}

// admit runs the rate-limiting stage. It reports whether the request may
// proceed; a false return means the 429 response was already written.
func (p *Pipeline) admit(w http.ResponseWriter, r *http.Request, route string, key string, limit RateLimitConfig) bool {
	if limit.MaxAttempts <= 0 || limit.Window <= 0 {
		return true
	}

	count, retryAfter, err := p.Counters.Incr(r.Context(), route+":"+key, limit.Window)
	if err != nil {
		// A broken counter store must not take the API down with it.
		p.logger().Warn("rate limit store unavailable, admitting request",
			"event", "pipeline_ratelimit_store_error",
			"module", "internal/platform/httpserver/middleware",
			"layer", "platform",
			"route", route,
			"error", err.Error(),
		)
		return true
	}
	if count > int64(limit.MaxAttempts) {
		p.logger().Warn("request rejected: rate limited",
			"event", "pipeline_rate_limited",
			"module", "internal/platform/httpserver/middleware",
			"layer", "platform",
			"route", route,
			"attempts", count,
			"max_attempts", limit.MaxAttempts,
		)
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		writeEnvelope(w, http.StatusTooManyRequests, ErrorEnvelope{
			Error:   "rate_limited",
			Message: "too many requests, retry after the window elapses",
		})
		return false
	}
	return true
}

// invoke runs the domain handler inside the error-normalization stage. A
// returned error or a panic becomes a structured 500; a normal response
// passes through untouched.
func (p *Pipeline) invoke(w http.ResponseWriter, r *http.Request, route string, identity Identity, next Handler) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.logHandlerFailure(route, identity, fmt.Errorf("panic: %v", recovered))
			writeEnvelope(w, http.StatusInternalServerError, ErrorEnvelope{
				Error:   "internal_error",
				Message: "internal server error",
			})
		}
	}()

	if err := next(w, r, identity); err != nil {
		p.logHandlerFailure(route, identity, err)
		writeEnvelope(w, http.StatusInternalServerError, ErrorEnvelope{
			Error:   "internal_error",
			Message: "internal server error",
		})
	}
}

func (p *Pipeline) logHandlerFailure(route string, identity Identity, err error) {
	p.logger().Error("handler failed",
		"event", "pipeline_handler_failure",
		"module", "internal/platform/httpserver/middleware",
		"layer", "platform",
		"route", route,
		"user_id", identity.UserID,
		"error", err.Error(),
	)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func writeEnvelope(w http.ResponseWriter, status int, body ErrorEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
