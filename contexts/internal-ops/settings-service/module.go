package settingsservice

import (
	"log/slog"

	httpadapter "relish/contexts/internal-ops/settings-service/adapters/http"
	"relish/contexts/internal-ops/settings-service/adapters/memory"
	"relish/contexts/internal-ops/settings-service/application"
	"relish/contexts/internal-ops/settings-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Settings ports.Repository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Settings: deps.Settings,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Settings: store,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
