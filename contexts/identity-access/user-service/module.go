package userservice

import (
	"log/slog"
	"time"

	httpadapter "relish/contexts/identity-access/user-service/adapters/http"
	"relish/contexts/identity-access/user-service/adapters/memory"
	tokenadapter "relish/contexts/identity-access/user-service/adapters/token"
	"relish/contexts/identity-access/user-service/application"
	"relish/contexts/identity-access/user-service/ports"
	"relish/internal/platform/httpserver/middleware"
)

type Module struct {
	Handler       httpadapter.Handler
	Authenticator middleware.Authenticator
	Store         *memory.Store
}

type Dependencies struct {
	Users         ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	SessionSecret []byte
	SessionTTL    time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Users:  deps.Users,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	issuer := tokenadapter.Issuer{
		Secret: deps.SessionSecret,
		TTL:    deps.SessionTTL,
		Clock:  deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Issuer:  issuer,
			Logger:  deps.Logger,
		},
		Authenticator: tokenadapter.Verifier{
			Secret: deps.SessionSecret,
			Users:  deps.Users,
		},
	}
}

func NewInMemoryModule(secret []byte, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Users:         store,
		Clock:         store,
		IDGenerator:   store,
		SessionSecret: secret,
		SessionTTL:    24 * time.Hour,
		Logger:        logger,
	})
	module.Store = store
	return module
}
