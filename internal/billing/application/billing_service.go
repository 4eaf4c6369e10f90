package application

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	billing "energy-billing/internal/billing/domain"
	masterdata "energy-billing/internal/masterdata/domain"
	"energy-billing/internal/observability/metrics"
)

// InvoiceTotals is the energy and money billed to a client for a period.
type InvoiceTotals struct {
	TotalKWh  float64
	TotalCost float64
}

// MeterStatement is the per-meter part of an invoice.
type MeterStatement struct {
	MeterID string
	Address string
	City    string
	// Loaded is false when the meter holds no data for the invoice period.
	Loaded    bool
	TotalKWh  float64
	TotalCost float64
}

// Invoice is the billing statement of one client for one period.
type Invoice struct {
	ClientID string
	IDType   string
	Email    string
	Address  string
	Period   billing.Period
	Meters   []MeterStatement
	Totals   InvoiceTotals
	// Billed is true when at least one meter was loaded for Period.
	Billed bool
}

// BillingService aggregates meter grids into client level figures.
type BillingService struct {
	directory ClientDirectory
	grids     billing.GridStore
	clock     Clock
	logger    *zap.Logger
}

// NewBillingService constructs the service.
func NewBillingService(directory ClientDirectory, grids billing.GridStore, clock Clock, logger *zap.Logger) (*BillingService, error) {
	if directory == nil {
		return nil, errors.New("billing service: nil client directory")
	}
	if grids == nil {
		return nil, errors.New("billing service: nil grid store")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{directory: directory, grids: grids, clock: clock, logger: logger}, nil
}

type meterSnapshot struct {
	meter    masterdata.Meter
	snapshot billing.GridSnapshot
}

// collect loads the client and snapshots every owned meter, in meter order.
func (s *BillingService) collect(ctx context.Context, clientID string, year, month int) (*masterdata.Client, billing.Period, []meterSnapshot, error) {
	period, err := billing.NewPeriod(year, month, s.clock.Now())
	if err != nil {
		return nil, billing.Period{}, nil, err
	}
	client, err := s.directory.GetClient(ctx, clientID)
	if err != nil {
		return nil, billing.Period{}, nil, translate(err)
	}
	meters := client.Meters()
	out := make([]meterSnapshot, 0, len(meters))
	for _, meter := range meters {
		item := meterSnapshot{meter: meter}
		grid, err := s.grids.Lookup(ctx, billing.MeterRef{ClientID: client.ID(), MeterID: meter.ID()})
		if err != nil {
			return nil, billing.Period{}, nil, err
		}
		if grid != nil {
			item.snapshot = grid.Snapshot()
		}
		out = append(out, item)
	}
	return client, period, out, nil
}

// eligible returns the snapshots loaded for period.
func (s *BillingService) eligible(ctx context.Context, op, clientID string, year, month int) (billing.Period, []billing.GridSnapshot, error) {
	start := time.Now()
	_, period, meters, err := s.collect(ctx, clientID, year, month)
	if err != nil {
		metrics.ObserveOperation(op, metrics.ResultError, time.Since(start))
		return billing.Period{}, nil, err
	}
	var snapshots []billing.GridSnapshot
	for _, m := range meters {
		if m.snapshot.LoadedFor(period) {
			snapshots = append(snapshots, m.snapshot)
		}
	}
	result := metrics.ResultSuccess
	if len(snapshots) == 0 {
		result = metrics.ResultNoData
	}
	metrics.ObserveOperation(op, result, time.Since(start))
	return period, snapshots, nil
}

// MinimumReading returns the smallest cell, zeros included, over the loaded
// meters of the client. ok is false when no meter is loaded for the period.
func (s *BillingService) MinimumReading(ctx context.Context, clientID string, year, month int) (float64, bool, error) {
	_, snapshots, err := s.eligible(ctx, "minimum_reading", clientID, year, month)
	if err != nil || len(snapshots) == 0 {
		return 0, false, err
	}
	minimum := math.Inf(1)
	for _, snap := range snapshots {
		snap.Each(func(_, _ int, kWh float64) {
			minimum = math.Min(minimum, kWh)
		})
	}
	return minimum, true, nil
}

// MaximumReading returns the largest cell over the loaded meters of the client.
func (s *BillingService) MaximumReading(ctx context.Context, clientID string, year, month int) (float64, bool, error) {
	_, snapshots, err := s.eligible(ctx, "maximum_reading", clientID, year, month)
	if err != nil || len(snapshots) == 0 {
		return 0, false, err
	}
	maximum := math.Inf(-1)
	for _, snap := range snapshots {
		snap.Each(func(_, _ int, kWh float64) {
			maximum = math.Max(maximum, kWh)
		})
	}
	return maximum, true, nil
}

// PerBandTotals sums kWh per tariff band, classifying each cell by its hour only.
func (s *BillingService) PerBandTotals(ctx context.Context, clientID string, year, month int) ([billing.BandCount]float64, bool, error) {
	var totals [billing.BandCount]float64
	_, snapshots, err := s.eligible(ctx, "per_band_totals", clientID, year, month)
	if err != nil || len(snapshots) == 0 {
		return totals, false, err
	}
	var bandErr error
	for _, snap := range snapshots {
		snap.Each(func(_, hour int, kWh float64) {
			band, err := billing.BandForHour(hour)
			if err != nil {
				bandErr = err
				return
			}
			totals[band.Index()] += kWh
		})
	}
	if bandErr != nil {
		return [billing.BandCount]float64{}, false, bandErr
	}
	return totals, true, nil
}

// PerDayTotals sums kWh per calendar day across the loaded meters.
func (s *BillingService) PerDayTotals(ctx context.Context, clientID string, year, month int) ([]float64, bool, error) {
	period, snapshots, err := s.eligible(ctx, "per_day_totals", clientID, year, month)
	if err != nil || len(snapshots) == 0 {
		return nil, false, err
	}
	totals := make([]float64, period.Days())
	for _, snap := range snapshots {
		snap.Each(func(day, _ int, kWh float64) {
			totals[day-1] += kWh
		})
	}
	return totals, true, nil
}

// InvoiceValue returns the billed energy and money for the client.
func (s *BillingService) InvoiceValue(ctx context.Context, clientID string, year, month int) (InvoiceTotals, bool, error) {
	_, snapshots, err := s.eligible(ctx, "invoice_value", clientID, year, month)
	if err != nil || len(snapshots) == 0 {
		return InvoiceTotals{}, false, err
	}
	var totals InvoiceTotals
	for _, snap := range snapshots {
		kWh, cost := snapshotTotals(snap)
		totals.TotalKWh += kWh
		totals.TotalCost += cost
	}
	return totals, true, nil
}

// Invoice builds the full statement of a client for a period.
func (s *BillingService) Invoice(ctx context.Context, clientID string, year, month int) (Invoice, error) {
	start := time.Now()
	client, period, meters, err := s.collect(ctx, clientID, year, month)
	if err != nil {
		metrics.ObserveOperation("invoice", metrics.ResultError, time.Since(start))
		return Invoice{}, err
	}

	invoice := Invoice{
		ClientID: client.ID(),
		IDType:   client.IDType,
		Email:    client.Email,
		Address:  client.Address,
		Period:   period,
		Meters:   make([]MeterStatement, 0, len(meters)),
	}
	for _, m := range meters {
		statement := MeterStatement{MeterID: m.meter.ID(), Address: m.meter.Address, City: m.meter.City}
		if m.snapshot.LoadedFor(period) {
			statement.Loaded = true
			statement.TotalKWh, statement.TotalCost = snapshotTotals(m.snapshot)
			invoice.Totals.TotalKWh += statement.TotalKWh
			invoice.Totals.TotalCost += statement.TotalCost
			invoice.Billed = true
		}
		invoice.Meters = append(invoice.Meters, statement)
	}

	result := metrics.ResultSuccess
	if !invoice.Billed {
		result = metrics.ResultNoData
	}
	metrics.ObserveOperation("invoice", result, time.Since(start))
	s.logger.Debug("invoice computed",
		zap.String("client_id", clientID),
		zap.Stringer("period", period),
		zap.Float64("total_kwh", invoice.Totals.TotalKWh),
		zap.Float64("total_cost", invoice.Totals.TotalCost),
	)
	return invoice, nil
}

// InvoiceText renders the printable invoice of a client for a period.
func (s *BillingService) InvoiceText(ctx context.Context, clientID string, year, month int) (string, error) {
	invoice, err := s.Invoice(ctx, clientID, year, month)
	if err != nil {
		return "", err
	}
	return RenderInvoiceText(invoice), nil
}

// snapshotTotals sums kWh and cost over the positive cells of a snapshot.
func snapshotTotals(snap billing.GridSnapshot) (float64, float64) {
	var kWh, cost float64
	for _, record := range snap.Records() {
		if record.KWh() <= 0 {
			continue
		}
		kWh += record.KWh()
		cost += record.Cost()
	}
	return kWh, cost
}
