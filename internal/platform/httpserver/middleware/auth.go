package middleware

import (
	"context"
	"net/http"
)

// Identity is the resolved caller of a protected request.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Authenticator resolves an Identity from session/credential state on the
// request. Implementations live with the identity service; the pipeline only
// depends on the pass/fail contract.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

type contextKey string

const identityContextKey contextKey = "relish.identity"

// WithIdentity stores the resolved identity on the request context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the identity stored by the pipeline, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}
