package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	apihttp "energy-billing/internal/api/http"
	"energy-billing/internal/billing/application"
	billingmemory "energy-billing/internal/billing/infrastructure/memory"
	"energy-billing/internal/billing/interfaces"
	"energy-billing/internal/billing/interfaces/console"
	"energy-billing/internal/config"
	"energy-billing/internal/eventbus"
	masterdataapp "energy-billing/internal/masterdata/application"
	mdmemory "energy-billing/internal/masterdata/infrastructure/memory"
	"energy-billing/internal/observability/logger"
	"energy-billing/internal/observability/metrics"
)

func main() {
	mode := flag.String("mode", "serve", "run mode: serve or console")
	flag.Parse()

	if err := run(*mode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(mode string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.Init(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New()
	clients, err := masterdataapp.NewClientService(mdmemory.NewClientRepository(), bus, log.Named("masterdata"))
	if err != nil {
		return err
	}
	grids := billingmemory.NewGridStore()
	clock := application.SystemClock{}
	consumption, err := application.NewConsumptionService(clients, grids, bus, clock, log.Named("consumption"))
	if err != nil {
		return err
	}
	billingSvc, err := application.NewBillingService(clients, grids, clock, log.Named("billing"))
	if err != nil {
		return err
	}
	simulator, err := application.NewSimulator(clients, consumption, application.SimulatorConfig{
		MinKWh: cfg.Simulation.MinKWh,
		MaxKWh: cfg.Simulation.MaxKWh,
		Seed:   cfg.Simulation.Seed,
	}, log.Named("simulator"))
	if err != nil {
		return err
	}

	eventbus.On(bus, consumption.HandleMeterRemoved)
	interfaces.NewEventLogger(log.Named("events")).Register(bus)

	if cfg.Demo.Clients > 0 {
		if _, err := simulator.SeedDemo(ctx, clients, cfg.Demo.Clients, cfg.Demo.MetersPerClient); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		if cfg.Demo.Year != 0 {
			if _, err := simulator.SimulateAll(ctx, cfg.Demo.Year, cfg.Demo.Month); err != nil {
				return fmt.Errorf("simulate demo data: %w", err)
			}
		}
	}

	switch mode {
	case "console":
		c, err := console.New(console.Deps{
			Clients:     clients,
			Consumption: consumption,
			Billing:     billingSvc,
			Simulator:   simulator,
			Logger:      log.Named("console"),
		}, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		return c.Run(ctx)
	case "serve":
		srv, err := apihttp.NewServer(apihttp.Deps{
			Clients:     clients,
			Consumption: consumption,
			Billing:     billingSvc,
			Simulator:   simulator,
			Logger:      log.Named("http"),
		})
		if err != nil {
			return err
		}
		return serve(ctx, log, cfg.HTTP, srv.Handler())
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func serve(ctx context.Context, log *zap.Logger, cfg config.HTTPConfig, handler http.Handler) error {
	server := &http.Server{Addr: cfg.Addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	return server.Shutdown(shutdownCtx)
}
