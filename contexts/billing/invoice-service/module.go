package invoiceservice

import (
	"log/slog"

	httpadapter "relish/contexts/billing/invoice-service/adapters/http"
	"relish/contexts/billing/invoice-service/adapters/memory"
	"relish/contexts/billing/invoice-service/application"
	"relish/contexts/billing/invoice-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Invoices    ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	TaxRate     float64
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Invoices: deps.Invoices,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		TaxRate:  deps.TaxRate,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed []ports.Invoice, taxRate float64, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Invoices:    store,
		Clock:       store,
		IDGenerator: store,
		TaxRate:     taxRate,
		Logger:      logger,
	})
	module.Store = store
	return module
}
