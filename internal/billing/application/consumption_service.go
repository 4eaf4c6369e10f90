package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/eventbus"
	masterdataapp "energy-billing/internal/masterdata/application"
	masterdata "energy-billing/internal/masterdata/domain"
	"energy-billing/internal/observability/metrics"
)

// RecordResult describes the effect of recording one reading.
type RecordResult struct {
	Period billing.Period
	// Initialized is true when the grid had to be (re)created for Period.
	Initialized bool
	// PeriodReset is true when data of Previous was discarded.
	PeriodReset bool
	Previous    billing.Period
}

// ConsumptionService loads and queries hourly consumption per meter.
type ConsumptionService struct {
	directory ClientDirectory
	grids     billing.GridStore
	publisher eventbus.Publisher
	clock     Clock
	logger    *zap.Logger
}

// NewConsumptionService constructs the service. publisher may be nil.
func NewConsumptionService(
	directory ClientDirectory,
	grids billing.GridStore,
	publisher eventbus.Publisher,
	clock Clock,
	logger *zap.Logger,
) (*ConsumptionService, error) {
	if directory == nil {
		return nil, errors.New("consumption service: nil client directory")
	}
	if grids == nil {
		return nil, errors.New("consumption service: nil grid store")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsumptionService{
		directory: directory,
		grids:     grids,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}, nil
}

// InitConsumptionPeriod (re)creates the grid of a meter for year/month with every cell at 0.
func (s *ConsumptionService) InitConsumptionPeriod(ctx context.Context, ref billing.MeterRef, year, month int) (billing.Period, error) {
	start := time.Now()
	period, err := s.initPeriod(ctx, ref, year, month, CauseExplicit)
	metrics.ObserveOperation("init_period", resultOf(err), time.Since(start))
	return period, err
}

func (s *ConsumptionService) initPeriod(ctx context.Context, ref billing.MeterRef, year, month int, cause string) (billing.Period, error) {
	period, err := billing.NewPeriod(year, month, s.clock.Now())
	if err != nil {
		return billing.Period{}, err
	}
	grid, err := s.meterGrid(ctx, ref)
	if err != nil {
		return billing.Period{}, err
	}
	if err := grid.Initialize(period); err != nil {
		return billing.Period{}, err
	}
	metrics.IncGridReset(cause)
	s.logger.Info("consumption period initialized",
		zap.String("client_id", ref.ClientID),
		zap.String("meter_id", ref.MeterID),
		zap.Stringer("period", period),
	)
	if err := s.publish(ctx, PeriodInitialized{Meter: ref, Period: period, Cause: cause, OccurredAt: s.clock.Now()}); err != nil {
		return period, err
	}
	return period, nil
}

// SetConsumption stores kWh at day/hour of the period currently loaded on the meter.
func (s *ConsumptionService) SetConsumption(ctx context.Context, ref billing.MeterRef, day, hour int, kWh float64) error {
	grid, err := s.meterGrid(ctx, ref)
	if err != nil {
		return err
	}
	if err := grid.Set(day, hour, kWh); err != nil {
		return err
	}
	metrics.IncConsumptionUpdate("set")
	return nil
}

// SetConsumptionAt stores kWh at day/hour of year/month. Like RecordConsumption,
// a meter loaded for another month is reinitialized for year/month first.
func (s *ConsumptionService) SetConsumptionAt(ctx context.Context, ref billing.MeterRef, year, month, day, hour int, kWh float64) (RecordResult, error) {
	period, err := billing.NewPeriod(year, month, s.clock.Now())
	if err != nil {
		return RecordResult{}, err
	}
	return s.storeAt(ctx, ref, period, day, hour, kWh, CauseSetAt)
}

// RecordConsumption stores a full reading. When the meter is not loaded for the
// reading's month the grid is reinitialized for it first and earlier data is dropped.
func (s *ConsumptionService) RecordConsumption(ctx context.Context, ref billing.MeterRef, record billing.ConsumptionRecord) (RecordResult, error) {
	ts := record.Timestamp()
	if ts.IsZero() {
		return RecordResult{}, fmt.Errorf("%w: record timestamp is required", billing.ErrInvalidArgument)
	}
	period, err := billing.NewPeriod(ts.Year(), int(ts.Month()), s.clock.Now())
	if err != nil {
		return RecordResult{}, err
	}
	return s.storeAt(ctx, ref, period, ts.Day(), ts.Hour(), record.KWh(), CauseRecord)
}

func (s *ConsumptionService) storeAt(ctx context.Context, ref billing.MeterRef, period billing.Period, day, hour int, kWh float64, cause string) (RecordResult, error) {
	grid, err := s.meterGrid(ctx, ref)
	if err != nil {
		return RecordResult{}, err
	}

	previous, wasLoaded := grid.Period()
	initialized, err := grid.SetAt(period, day, hour, kWh)
	if err != nil {
		return RecordResult{}, err
	}
	metrics.IncConsumptionUpdate(cause)

	result := RecordResult{Period: period, Initialized: initialized}
	if !initialized {
		return result, nil
	}
	metrics.IncGridReset(cause)
	if err := s.publish(ctx, PeriodInitialized{Meter: ref, Period: period, Cause: cause, OccurredAt: s.clock.Now()}); err != nil {
		return result, err
	}
	if wasLoaded && previous != period {
		result.PeriodReset = true
		result.Previous = previous
		s.logger.Warn("consumption write discarded previous period",
			zap.String("client_id", ref.ClientID),
			zap.String("meter_id", ref.MeterID),
			zap.String("cause", cause),
			zap.Stringer("previous", previous),
			zap.Stringer("period", period),
		)
		if err := s.publish(ctx, PeriodReset{Meter: ref, Previous: previous, Period: period, OccurredAt: s.clock.Now()}); err != nil {
			return result, err
		}
	}
	return result, nil
}

// QueryConsumptionRecords lists every cell of the meter for year/month in
// chronological order. It returns an empty slice when that period is not loaded.
func (s *ConsumptionService) QueryConsumptionRecords(ctx context.Context, ref billing.MeterRef, year, month int) ([]billing.ConsumptionRecord, error) {
	period, err := billing.NewPeriod(year, month, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.checkMeter(ctx, ref); err != nil {
		return nil, err
	}
	grid, err := s.grids.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if grid == nil {
		return []billing.ConsumptionRecord{}, nil
	}
	snapshot := grid.Snapshot()
	if !snapshot.LoadedFor(period) {
		return []billing.ConsumptionRecord{}, nil
	}
	return snapshot.Records(), nil
}

// LoadedPeriod returns the period currently loaded on a meter.
func (s *ConsumptionService) LoadedPeriod(ctx context.Context, ref billing.MeterRef) (billing.Period, bool, error) {
	if err := s.checkMeter(ctx, ref); err != nil {
		return billing.Period{}, false, err
	}
	grid, err := s.grids.Lookup(ctx, ref)
	if err != nil || grid == nil {
		return billing.Period{}, false, err
	}
	period, ok := grid.Period()
	return period, ok, nil
}

// HandleMeterRemoved drops the grid of a removed meter.
func (s *ConsumptionService) HandleMeterRemoved(ctx context.Context, event masterdataapp.MeterRemoved) error {
	ref := billing.MeterRef{ClientID: event.ClientID, MeterID: event.MeterID}
	if err := s.grids.Delete(ctx, ref); err != nil {
		return err
	}
	s.logger.Debug("consumption grid dropped", zap.String("client_id", ref.ClientID), zap.String("meter_id", ref.MeterID))
	return nil
}

func (s *ConsumptionService) meterGrid(ctx context.Context, ref billing.MeterRef) (*billing.ConsumptionGrid, error) {
	if err := s.checkMeter(ctx, ref); err != nil {
		return nil, err
	}
	return s.grids.Grid(ctx, ref)
}

func (s *ConsumptionService) checkMeter(ctx context.Context, ref billing.MeterRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if _, err := s.directory.GetMeter(ctx, ref.ClientID, ref.MeterID); err != nil {
		return translate(err)
	}
	return nil
}

func (s *ConsumptionService) publish(ctx context.Context, event any) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, event)
}

// translate maps directory errors onto the billing taxonomy while keeping the cause.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, masterdata.ErrNotFound):
		return fmt.Errorf("%w: %w", billing.ErrNotFound, err)
	case errors.Is(err, masterdata.ErrEmptyClientID), errors.Is(err, masterdata.ErrEmptyMeterID):
		return fmt.Errorf("%w: %w", billing.ErrInvalidArgument, err)
	default:
		return err
	}
}

func resultOf(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultSuccess
}
