package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	billingmemory "energy-billing/internal/billing/infrastructure/memory"
	"energy-billing/internal/eventbus"
	masterdataapp "energy-billing/internal/masterdata/application"
	mdmemory "energy-billing/internal/masterdata/infrastructure/memory"
)

var testClock = FixedClock(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))

type fixture struct {
	bus         *eventbus.Bus
	clients     *masterdataapp.ClientService
	grids       *billingmemory.GridStore
	consumption *ConsumptionService
	billing     *BillingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	bus := eventbus.New()
	clients, err := masterdataapp.NewClientService(mdmemory.NewClientRepository(), bus, logger)
	require.NoError(t, err)
	grids := billingmemory.NewGridStore()
	consumption, err := NewConsumptionService(clients, grids, bus, testClock, logger)
	require.NoError(t, err)
	eventbus.On(bus, consumption.HandleMeterRemoved)
	billingSvc, err := NewBillingService(clients, grids, testClock, logger)
	require.NoError(t, err)
	return &fixture{bus: bus, clients: clients, grids: grids, consumption: consumption, billing: billingSvc}
}

// seedClient registers c1 with two meters, m1 and m2.
func (f *fixture) seedClient(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.clients.CreateClient(ctx, "c1", "CC", "ana@example.com", "Calle 1")
	require.NoError(t, err)
	_, err = f.clients.AddMeter(ctx, "c1", "m1", "Calle 10", "Medellín")
	require.NoError(t, err)
	_, err = f.clients.AddMeter(ctx, "c1", "m2", "Carrera 5", "Bogotá")
	require.NoError(t, err)
}
