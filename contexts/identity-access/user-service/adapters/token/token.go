package tokenadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "relish/contexts/identity-access/user-service/domain/errors"
	"relish/contexts/identity-access/user-service/ports"
	"relish/internal/platform/httpserver/middleware"
)

// Claims is the session token payload.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints HS256 session tokens for authenticated users.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
	Clock  ports.Clock
}

func (i Issuer) Issue(user ports.User) (string, time.Time, error) {
	now := i.Clock.Now().UTC()
	expiresAt := now.Add(i.TTL)
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verifier implements the pipeline's Authenticator: it resolves an identity
// from the Authorization header or fails the request with no side effects.
type Verifier struct {
	Secret []byte
	Users  ports.Repository
}

func (v Verifier) Authenticate(r *http.Request) (middleware.Identity, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return middleware.Identity{}, domainerrors.ErrInvalidSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domainerrors.ErrInvalidSession
		}
		return v.Secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return middleware.Identity{}, domainerrors.ErrInvalidSession
	}

	user, err := v.Users.GetUser(r.Context(), claims.Subject)
	if err != nil {
		return middleware.Identity{}, domainerrors.ErrInvalidSession
	}
	if user.Status != "active" {
		return middleware.Identity{}, domainerrors.ErrUserInactive
	}

	return middleware.Identity{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}
