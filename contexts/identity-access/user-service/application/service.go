package application

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domainerrors "relish/contexts/identity-access/user-service/domain/errors"
	"relish/contexts/identity-access/user-service/ports"
)

const (
	RoleRep     = "rep"
	RoleManager = "manager"
	RoleAdmin   = "admin"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Service struct {
	Users  ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (s Service) Register(ctx context.Context, input ports.CreateUserInput) (ports.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = RoleRep
	}
	if !isValidEmail(email) || name == "" || len(input.Password) < 8 || !isSupportedRole(role) {
		return ports.User{}, domainerrors.ErrInvalidUserInput
	}

	if _, err := s.Users.GetUserByEmail(ctx, email); err == nil {
		return ports.User{}, domainerrors.ErrEmailTaken
	} else if err != domainerrors.ErrUserNotFound {
		return ports.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ports.User{}, err
	}
	userID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.User{}, err
	}

	now := s.Clock.Now().UTC()
	user := ports.User{
		UserID:       userID,
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return ports.User{}, err
	}

	s.logger().Info("user registered",
		"event", "user_registered",
		"module", "identity-access/user-service",
		"layer", "application",
		"user_id", user.UserID,
		"role", user.Role,
	)
	return user, nil
}

// Login verifies credentials and returns the user. Callers decide what
// session artifact to mint; throttling happens upstream in the pipeline.
func (s Service) Login(ctx context.Context, email string, password string) (ports.User, error) {
	user, err := s.Users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == domainerrors.ErrUserNotFound {
			return ports.User{}, domainerrors.ErrInvalidCredentials
		}
		return ports.User{}, err
	}
	if user.Status != StatusActive {
		return ports.User{}, domainerrors.ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ports.User{}, domainerrors.ErrInvalidCredentials
	}

	s.logger().Info("user logged in",
		"event", "user_logged_in",
		"module", "identity-access/user-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return user, nil
}

func (s Service) GetUser(ctx context.Context, userID string) (ports.User, error) {
	return s.Users.GetUser(ctx, strings.TrimSpace(userID))
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func isValidEmail(value string) bool {
	if value == "" {
		return false
	}
	_, err := mail.ParseAddress(value)
	return err == nil
}

func isSupportedRole(value string) bool {
	switch value {
	case RoleRep, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}
