package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "energy-billing/internal/billing/domain"
	masterdata "energy-billing/internal/masterdata/domain"
)

// loadFebruary loads m1 for 02/2025 with one reading in every band.
func loadFebruary(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.consumption.InitConsumptionPeriod(ctx, m1, 2025, 2)
	require.NoError(t, err)
	require.NoError(t, f.consumption.SetConsumption(ctx, m1, 1, 5, 300))
	require.NoError(t, f.consumption.SetConsumption(ctx, m1, 2, 10, 301))
	require.NoError(t, f.consumption.SetConsumption(ctx, m1, 28, 20, 999.99))
	require.NoError(t, f.consumption.SetConsumption(ctx, m1, 3, 3, 50))
}

func TestBillingService_InvoiceValue(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	loadFebruary(t, f)

	totals, ok, err := f.billing.InvoiceValue(context.Background(), "c1", 2025, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1650.99, totals.TotalKWh, 1e-9)
	assert.InDelta(t, 650295, totals.TotalCost, 1e-6)
}

func TestBillingService_NoData(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	ctx := context.Background()

	_, ok, err := f.billing.InvoiceValue(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = f.billing.MinimumReading(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = f.billing.MaximumReading(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = f.billing.PerBandTotals(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	days, ok, err := f.billing.PerDayTotals(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, days)
}

func TestBillingService_ZeroConsumptionIsNotNoData(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	ctx := context.Background()
	_, err := f.consumption.InitConsumptionPeriod(ctx, m1, 2025, 2)
	require.NoError(t, err)

	totals, ok, err := f.billing.InvoiceValue(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, totals.TotalKWh)
	assert.Zero(t, totals.TotalCost)
}

func TestBillingService_SkipsMetersLoadedForOtherPeriod(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	loadFebruary(t, f)

	_, ok, err := f.billing.InvoiceValue(context.Background(), "c1", 2025, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBillingService_MinMax(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	loadFebruary(t, f)
	ctx := context.Background()

	minimum, ok, err := f.billing.MinimumReading(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, minimum)

	maximum, ok, err := f.billing.MaximumReading(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 999.99, maximum)
}

func TestBillingService_PerBandTotalsSumToTotal(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	loadFebruary(t, f)
	ctx := context.Background()

	bands, ok, err := f.billing.PerBandTotals(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 350, bands[billing.BandNight.Index()], 1e-9)
	assert.InDelta(t, 301, bands[billing.BandDay.Index()], 1e-9)
	assert.InDelta(t, 999.99, bands[billing.BandEvening.Index()], 1e-9)

	totals, _, err := f.billing.InvoiceValue(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	assert.InDelta(t, totals.TotalKWh, bands[0]+bands[1]+bands[2], 1e-9)
}

func TestBillingService_PerDayTotalsAcrossMeters(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	loadFebruary(t, f)
	ctx := context.Background()
	m2 := billing.MeterRef{ClientID: "c1", MeterID: "m2"}
	_, err := f.consumption.InitConsumptionPeriod(ctx, m2, 2025, 2)
	require.NoError(t, err)
	require.NoError(t, f.consumption.SetConsumption(ctx, m2, 1, 23, 10))

	days, ok, err := f.billing.PerDayTotals(ctx, "c1", 2025, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, days, 28)
	assert.InDelta(t, 310, days[0], 1e-9)
	assert.InDelta(t, 301, days[1], 1e-9)
	assert.InDelta(t, 50, days[2], 1e-9)
	assert.InDelta(t, 999.99, days[27], 1e-9)
}

func TestBillingService_UnknownClient(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.billing.InvoiceValue(context.Background(), "ghost", 2025, 2)
	assert.ErrorIs(t, err, billing.ErrNotFound)
	assert.ErrorIs(t, err, masterdata.ErrClientNotFound)
}

func TestBillingService_InvalidPeriod(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	_, _, err := f.billing.MinimumReading(context.Background(), "c1", 2025, 13)
	assert.ErrorIs(t, err, billing.ErrInvalidArgument)
}

func TestBillingService_InvoiceText(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t)
	loadFebruary(t, f)

	text, err := f.billing.InvoiceText(context.Background(), "c1", 2025, 2)
	require.NoError(t, err)

	want := "" +
		"========================================\n" +
		"         FACTURA DE CONSUMO ELÉCTRICO\n" +
		"========================================\n" +
		"Cliente: c1 (CC)\n" +
		"Correo: ana@example.com\n" +
		"Dirección: Calle 1\n" +
		"Periodo Facturado: 02/2025\n" +
		"----------------------------------------\n" +
		"Detalle de Consumos por Medidor:\n" +
		"\n" +
		"  Medidor ID: m1\n" +
		"  Ubicación: Calle 10, Medellín\n" +
		"    Consumo Total del Medidor: 1650.99 kWh\n" +
		"    Valor Total del Medidor: 650295.00 COP\n" +
		"\n" +
		"  Medidor ID: m2\n" +
		"  Ubicación: Carrera 5, Bogotá\n" +
		"    - Consumos para el periodo 2/2025 no están cargados actualmente para este medidor.\n" +
		"----------------------------------------\n" +
		"CONSUMO TOTAL GENERAL DEL CLIENTE: 1650.99 kWh\n" +
		"VALOR TOTAL A PAGAR POR EL CLIENTE: 650295.00 COP\n" +
		"========================================\n"
	assert.Equal(t, want, text)
}

func TestRenderInvoiceText_NoMeters(t *testing.T) {
	text := RenderInvoiceText(Invoice{
		ClientID: "c9",
		IDType:   "NIT",
		Period:   billing.Period{Year: 2025, Month: 1},
	})
	assert.Contains(t, text, "Detalle de Consumos por Medidor:\n\n  ** Este cliente no tiene medidores de energía asociados. **\n----")
	assert.Contains(t, text, "CONSUMO TOTAL GENERAL DEL CLIENTE: 0.00 kWh\n")
}
