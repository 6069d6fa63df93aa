package opportunityservice

import (
	"log/slog"

	httpadapter "relish/contexts/crm/opportunity-service/adapters/http"
	"relish/contexts/crm/opportunity-service/adapters/memory"
	"relish/contexts/crm/opportunity-service/application"
	"relish/contexts/crm/opportunity-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Outbox  ports.OutboxRepository
	Store   *memory.Store
}

type Dependencies struct {
	Opportunities ports.Repository
	Outbox        ports.OutboxRepository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Opportunities: deps.Opportunities,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Outbox:  deps.Outbox,
	}
}

func NewInMemoryModule(seed []ports.Opportunity, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Opportunities: store,
		Outbox:        store,
		Clock:         store,
		IDGenerator:   store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
