package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/identity-access/user-service/adapters/token"
	"relish/contexts/identity-access/user-service/application"
	"relish/contexts/identity-access/user-service/ports"
	httptransport "relish/contexts/identity-access/user-service/transport/http"
)

type Handler struct {
	Service application.Service
	Issuer  tokenadapter.Issuer
	Logger  *slog.Logger
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	user, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	signed, expiresAt, err := h.Issuer.Issue(user)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      mapUser(user),
	}, nil
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.RegisterResponse, error) {
	user, err := h.Service.Register(ctx, ports.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	return httptransport.RegisterResponse{User: mapUser(user)}, nil
}

func (h Handler) MeHandler(ctx context.Context, userID string) (httptransport.MeResponse, error) {
	user, err := h.Service.GetUser(ctx, userID)
	if err != nil {
		return httptransport.MeResponse{}, err
	}
	return httptransport.MeResponse{User: mapUser(user)}, nil
}

func mapUser(user ports.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
