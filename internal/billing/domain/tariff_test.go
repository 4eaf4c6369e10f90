package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBand(t *testing.T) {
	tests := []struct {
		name string
		hour int
		kWh  float64
		want Band
	}{
		{name: "night lower bound", hour: 0, kWh: 100, want: BandNight},
		{name: "night upper bound", hour: 6, kWh: 300, want: BandNight},
		{name: "night below range", hour: 3, kWh: 50, want: BandNone},
		{name: "night above range", hour: 3, kWh: 300.01, want: BandNone},
		{name: "day exclusive lower bound", hour: 7, kWh: 300, want: BandNone},
		{name: "day just above lower bound", hour: 10, kWh: 301, want: BandDay},
		{name: "day upper bound", hour: 17, kWh: 600, want: BandDay},
		{name: "day above range", hour: 12, kWh: 600.5, want: BandNone},
		{name: "evening exclusive lower bound", hour: 18, kWh: 600, want: BandNone},
		{name: "evening inside", hour: 20, kWh: 999.99, want: BandEvening},
		{name: "evening exclusive upper bound", hour: 23, kWh: 1000, want: BandNone},
		{name: "zero reading", hour: 12, kWh: 0, want: BandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBand(tt.hour, tt.kWh)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBand_InvalidHour(t *testing.T) {
	for _, hour := range []int{-1, 24, 100} {
		_, err := ResolveBand(hour, 200)
		assert.ErrorIs(t, err, ErrInvalidArgument, "hour %d", hour)
	}
}

func TestBandForHour_CoversEveryHourOnce(t *testing.T) {
	counts := map[Band]int{}
	for hour := 0; hour < HoursPerDay; hour++ {
		band, err := BandForHour(hour)
		require.NoError(t, err)
		require.NotEqual(t, BandNone, band, "hour %d", hour)
		counts[band]++
	}
	assert.Equal(t, 7, counts[BandNight])
	assert.Equal(t, 11, counts[BandDay])
	assert.Equal(t, 6, counts[BandEvening])
}

func TestPriceFor(t *testing.T) {
	price, err := PriceFor(2, 150)
	require.NoError(t, err)
	assert.Equal(t, 200.0, price)

	price, err = PriceFor(9, 450)
	require.NoError(t, err)
	assert.Equal(t, 300.0, price)

	price, err = PriceFor(21, 700)
	require.NoError(t, err)
	assert.Equal(t, 500.0, price)

	price, err = PriceFor(21, 70)
	require.NoError(t, err)
	assert.Zero(t, price)
}

func TestBands_ReturnsCopy(t *testing.T) {
	bands := Bands()
	require.Len(t, bands, BandCount)
	bands[0].PricePerKWh = 1

	rule, ok := BandNight.Rule()
	require.True(t, ok)
	assert.Equal(t, 200.0, rule.PricePerKWh)
}

func TestBandIndexAndLabel(t *testing.T) {
	assert.Equal(t, -1, BandNone.Index())
	assert.Equal(t, 0, BandNight.Index())
	assert.Equal(t, 2, BandEvening.Index())
	assert.Equal(t, "Franja 2 (07:00-17:00)", BandDay.String())
	_, ok := BandNone.Rule()
	assert.False(t, ok)
}
