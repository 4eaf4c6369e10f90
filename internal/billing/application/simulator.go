package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/billing/format"
	masterdata "energy-billing/internal/masterdata/domain"
	"energy-billing/internal/observability/metrics"
)

// kWhStep is the reading resolution of simulated values.
const kWhStep = 0.01

// SimulatorConfig bounds the generated readings. With MaxKWh 0 every hour is
// drawn inside the magnitude range of its tariff band; otherwise every hour is
// drawn from [MinKWh, MaxKWh].
type SimulatorConfig struct {
	MinKWh float64
	MaxKWh float64
	// Seed 0 picks a random seed.
	Seed uint64
}

// DefaultSimulatorConfig draws readings per tariff band.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{}
}

// PerBand reports whether readings follow the tariff bands.
func (c SimulatorConfig) PerBand() bool { return c.MinKWh == 0 && c.MaxKWh == 0 }

// Validate checks the kWh range.
func (c SimulatorConfig) Validate() error {
	if c.MinKWh < 0 || c.MaxKWh < c.MinKWh {
		return fmt.Errorf("%w: simulated kWh range [%v, %v] is invalid", billing.ErrInvalidArgument, c.MinKWh, c.MaxKWh)
	}
	return nil
}

// SimulationResult summarizes a simulated load.
type SimulationResult struct {
	Period  billing.Period
	Clients int
	Meters  int
	Cells   int
}

// ClientRegistrar creates demo clients and meters.
type ClientRegistrar interface {
	CreateClient(ctx context.Context, id, idType, email, address string) (*masterdata.Client, error)
	AddMeter(ctx context.Context, clientID, meterID, address, city string) (masterdata.Meter, error)
}

// Simulator fills meter grids with random hourly readings.
type Simulator struct {
	directory   ClientDirectory
	consumption *ConsumptionService
	cfg         SimulatorConfig
	logger      *zap.Logger

	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewSimulator constructs a simulator.
func NewSimulator(directory ClientDirectory, consumption *ConsumptionService, cfg SimulatorConfig, logger *zap.Logger) (*Simulator, error) {
	if directory == nil {
		return nil, errors.New("simulator: nil client directory")
	}
	if consumption == nil {
		return nil, errors.New("simulator: nil consumption service")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		directory:   directory,
		consumption: consumption,
		cfg:         cfg,
		logger:      logger,
		faker:       gofakeit.New(cfg.Seed),
	}, nil
}

// SimulateAll loads every meter of every client for year/month.
func (s *Simulator) SimulateAll(ctx context.Context, year, month int) (SimulationResult, error) {
	clients, err := s.directory.ListClients(ctx)
	if err != nil {
		return SimulationResult{}, err
	}
	return s.simulate(ctx, clients, year, month)
}

// SimulateClient loads every meter of one client for year/month.
func (s *Simulator) SimulateClient(ctx context.Context, clientID string, year, month int) (SimulationResult, error) {
	client, err := s.directory.GetClient(ctx, clientID)
	if err != nil {
		return SimulationResult{}, translate(err)
	}
	return s.simulate(ctx, []*masterdata.Client{client}, year, month)
}

func (s *Simulator) simulate(ctx context.Context, clients []*masterdata.Client, year, month int) (SimulationResult, error) {
	start := time.Now()
	result, err := s.fill(ctx, clients, year, month)
	metrics.ObserveOperation("simulate", resultOf(err), time.Since(start))
	if err == nil {
		s.logger.Info("consumption simulated",
			zap.Stringer("period", result.Period),
			zap.Int("clients", result.Clients),
			zap.Int("meters", result.Meters),
			zap.Int("cells", result.Cells),
		)
	}
	return result, err
}

func (s *Simulator) fill(ctx context.Context, clients []*masterdata.Client, year, month int) (SimulationResult, error) {
	period, err := billing.NewPeriod(year, month, s.consumption.clock.Now())
	if err != nil {
		return SimulationResult{}, err
	}
	result := SimulationResult{Period: period, Clients: len(clients)}
	for _, client := range clients {
		for _, meter := range client.Meters() {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			ref := billing.MeterRef{ClientID: client.ID(), MeterID: meter.ID()}
			if _, err := s.consumption.initPeriod(ctx, ref, year, month, CauseSimulated); err != nil {
				return result, err
			}
			grid, err := s.consumption.grids.Grid(ctx, ref)
			if err != nil {
				return result, err
			}
			for day := 1; day <= period.Days(); day++ {
				for hour := 0; hour < billing.HoursPerDay; hour++ {
					if err := grid.Set(day, hour, s.reading(hour)); err != nil {
						return result, err
					}
				}
			}
			cells := period.Days() * billing.HoursPerDay
			metrics.AddConsumptionUpdates("simulated", cells)
			result.Meters++
			result.Cells += cells
		}
	}
	return result, nil
}

// reading draws a kWh value for hour rounded to two decimals.
func (s *Simulator) reading(hour int) float64 {
	lo, hi := s.cfg.MinKWh, s.cfg.MaxKWh
	if s.cfg.PerBand() {
		lo, hi = bandRange(hour)
	}
	s.mu.Lock()
	v := s.faker.Float64Range(lo, hi)
	s.mu.Unlock()
	v = format.Round2(v)
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// bandRange returns the closed kWh range priced by the band of hour, with
// exclusive bounds moved one step inside.
func bandRange(hour int) (float64, float64) {
	band, err := billing.BandForHour(hour)
	if err != nil {
		return 0, 0
	}
	rule, ok := band.Rule()
	if !ok {
		return 0, 0
	}
	lo, hi := rule.MinKWh, rule.MaxKWh
	if !rule.MinInclusive {
		lo = format.Round2(lo + kWhStep)
	}
	if !rule.MaxInclusive {
		hi = format.Round2(hi - kWhStep)
	}
	return lo, hi
}

// SeedDemo registers fake clients, each owning metersPerClient meters.
func (s *Simulator) SeedDemo(ctx context.Context, registrar ClientRegistrar, clients, metersPerClient int) ([]string, error) {
	if registrar == nil {
		return nil, errors.New("simulator: nil client registrar")
	}
	ids := make([]string, 0, clients)
	for i := 0; i < clients; i++ {
		s.mu.Lock()
		id := s.faker.Numerify("##########")
		idType := s.faker.RandomString([]string{"CC", "NIT", "CE"})
		email := s.faker.Email()
		address := s.faker.Street()
		s.mu.Unlock()

		if _, err := registrar.CreateClient(ctx, id, idType, email, address); err != nil {
			if errors.Is(err, masterdata.ErrDuplicateClient) {
				continue
			}
			return ids, err
		}
		for j := 1; j <= metersPerClient; j++ {
			s.mu.Lock()
			street, city := s.faker.Street(), s.faker.City()
			s.mu.Unlock()
			if _, err := registrar.AddMeter(ctx, id, fmt.Sprintf("MED-%s-%02d", id[len(id)-4:], j), street, city); err != nil {
				return ids, err
			}
		}
		ids = append(ids, id)
	}
	s.logger.Info("demo clients seeded", zap.Int("clients", len(ids)), zap.Int("meters_per_client", metersPerClient))
	return ids, nil
}
