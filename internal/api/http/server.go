package apihttp

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"energy-billing/internal/billing/application"
	masterdataapp "energy-billing/internal/masterdata/application"
)

// Deps are the services exposed over HTTP.
type Deps struct {
	Clients     *masterdataapp.ClientService
	Consumption *application.ConsumptionService
	Billing     *application.BillingService
	Simulator   *application.Simulator
	Logger      *zap.Logger
}

// Server routes the billing API.
type Server struct {
	clients     *masterdataapp.ClientService
	consumption *application.ConsumptionService
	billing     *application.BillingService
	simulator   *application.Simulator
	logger      *zap.Logger
}

// NewServer constructs the API server.
func NewServer(deps Deps) (*Server, error) {
	if deps.Clients == nil {
		return nil, errors.New("api server: nil client service")
	}
	if deps.Consumption == nil {
		return nil, errors.New("api server: nil consumption service")
	}
	if deps.Billing == nil {
		return nil, errors.New("api server: nil billing service")
	}
	if deps.Simulator == nil {
		return nil, errors.New("api server: nil simulator")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{
		clients:     deps.Clients,
		consumption: deps.Consumption,
		billing:     deps.Billing,
		simulator:   deps.Simulator,
		logger:      deps.Logger,
	}, nil
}

// Handler returns the routed handler wrapped with request id and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/v1/tariffs", s.listTariffs)

	mux.HandleFunc("GET /api/v1/clients", s.listClients)
	mux.HandleFunc("POST /api/v1/clients", s.createClient)
	mux.HandleFunc("GET /api/v1/clients/{clientID}", s.getClient)
	mux.HandleFunc("PATCH /api/v1/clients/{clientID}", s.updateClient)

	mux.HandleFunc("GET /api/v1/clients/{clientID}/meters", s.listMeters)
	mux.HandleFunc("POST /api/v1/clients/{clientID}/meters", s.addMeter)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/meters/{meterID}", s.getMeter)
	mux.HandleFunc("PUT /api/v1/clients/{clientID}/meters/{meterID}", s.updateMeter)
	mux.HandleFunc("DELETE /api/v1/clients/{clientID}/meters/{meterID}", s.removeMeter)

	mux.HandleFunc("POST /api/v1/clients/{clientID}/meters/{meterID}/period", s.initPeriod)
	mux.HandleFunc("PUT /api/v1/clients/{clientID}/meters/{meterID}/consumption", s.setConsumption)
	mux.HandleFunc("POST /api/v1/clients/{clientID}/meters/{meterID}/records", s.recordConsumption)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/meters/{meterID}/records", s.queryRecords)

	mux.HandleFunc("POST /api/v1/simulations", s.simulate)

	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/minimum", s.minimumReading)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/maximum", s.maximumReading)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/bands", s.perBandTotals)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/days", s.perDayTotals)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/invoice", s.invoice)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/invoice.txt", s.invoiceText)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/invoice.pdf", s.invoicePDF)
	mux.HandleFunc("GET /api/v1/clients/{clientID}/billing/invoice.xlsx", s.invoiceXLSX)

	return requestIDMiddleware(loggingMiddleware(s.logger, mux))
}
