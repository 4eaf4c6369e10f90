package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func mustPeriod(t *testing.T, year, month int) Period {
	t.Helper()
	p, err := NewPeriod(year, month, now)
	require.NoError(t, err)
	return p
}

func TestNewPeriod_Bounds(t *testing.T) {
	_, err := NewPeriod(2025, 0, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPeriod(2025, 13, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPeriod(1899, 1, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPeriod(2032, 1, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	p, err := NewPeriod(2031, 12, now)
	require.NoError(t, err)
	assert.Equal(t, "12/2031", p.String())
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 31, DaysInMonth(2025, time.January))
	assert.Equal(t, 30, DaysInMonth(2025, time.April))
}

func TestConsumptionGrid_InitializeFebruary(t *testing.T) {
	grid := NewConsumptionGrid()
	require.NoError(t, grid.Initialize(mustPeriod(t, 2025, 2)))

	snap := grid.Snapshot()
	require.True(t, snap.Loaded())
	assert.Equal(t, 28, snap.Days())
	cells := 0
	snap.Each(func(day, hour int, kWh float64) {
		cells++
		assert.Zero(t, kWh)
	})
	assert.Equal(t, 28*HoursPerDay, cells)
}

func TestConsumptionGrid_UninitializedRejectsAccess(t *testing.T) {
	grid := NewConsumptionGrid()
	_, err := grid.Get(1, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, grid.Set(1, 0, 5), ErrInvalidState)

	_, ok := grid.Period()
	assert.False(t, ok)
	assert.False(t, grid.Snapshot().Loaded())
}

func TestConsumptionGrid_SetAndGet(t *testing.T) {
	grid := NewConsumptionGrid()
	require.NoError(t, grid.Initialize(mustPeriod(t, 2025, 4)))

	require.NoError(t, grid.Set(30, 23, 412.5))
	v, err := grid.Get(30, 23)
	require.NoError(t, err)
	assert.Equal(t, 412.5, v)

	assert.ErrorIs(t, grid.Set(31, 0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, grid.Set(0, 0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, grid.Set(1, 24, 1), ErrInvalidArgument)
	assert.ErrorIs(t, grid.Set(1, -1, 1), ErrInvalidArgument)
	assert.ErrorIs(t, grid.Set(1, 1, -3), ErrInvalidArgument)
}

func TestConsumptionGrid_InitializeTwiceResets(t *testing.T) {
	grid := NewConsumptionGrid()
	period := mustPeriod(t, 2025, 1)
	require.NoError(t, grid.Initialize(period))
	require.NoError(t, grid.Set(3, 4, 150))

	require.NoError(t, grid.Initialize(period))
	v, err := grid.Get(3, 4)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestConsumptionGrid_InitializeRejectsInvalidPeriod(t *testing.T) {
	grid := NewConsumptionGrid()
	assert.ErrorIs(t, grid.Initialize(Period{Year: 2025, Month: 13}), ErrInvalidArgument)
	assert.ErrorIs(t, grid.Initialize(Period{Year: 1500, Month: 1}), ErrInvalidArgument)
	assert.ErrorIs(t, grid.Initialize(Period{Year: 9999, Month: 1}), ErrInvalidArgument)
	_, err := grid.SetAt(Period{Year: 9999, Month: 1}, 1, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, ok := grid.Period()
	assert.False(t, ok)
}

func TestConsumptionGrid_BoundsYearByClock(t *testing.T) {
	june := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	grid := NewConsumptionGridWithClock(func() time.Time { return june })

	require.NoError(t, grid.Initialize(Period{Year: 2030, Month: 12}))
	assert.ErrorIs(t, grid.Initialize(Period{Year: 2031, Month: 1}), ErrInvalidArgument)
	assert.True(t, grid.IsLoadedFor(Period{Year: 2030, Month: 12}), "rejected period keeps loaded data")
}

func TestConsumptionGrid_SetAtResetsOnPeriodChange(t *testing.T) {
	grid := NewConsumptionGrid()
	jan := mustPeriod(t, 2025, 1)
	feb := mustPeriod(t, 2025, 2)

	reset, err := grid.SetAt(jan, 10, 8, 320)
	require.NoError(t, err)
	assert.True(t, reset, "first write initializes the grid")

	reset, err = grid.SetAt(jan, 11, 8, 330)
	require.NoError(t, err)
	assert.False(t, reset)

	reset, err = grid.SetAt(feb, 1, 0, 120)
	require.NoError(t, err)
	assert.True(t, reset)

	assert.True(t, grid.IsLoadedFor(feb))
	v, err := grid.Get(10, 8)
	require.NoError(t, err)
	assert.Zero(t, v, "previous period data is discarded")

	_, err = grid.SetAt(feb, 29, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, grid.IsLoadedFor(feb), "rejected write leaves the grid untouched")
}

func TestGridSnapshot_IsDetached(t *testing.T) {
	grid := NewConsumptionGrid()
	require.NoError(t, grid.Initialize(mustPeriod(t, 2025, 6)))
	require.NoError(t, grid.Set(1, 0, 101))

	snap := grid.Snapshot()
	require.NoError(t, grid.Set(1, 0, 999))

	assert.Equal(t, 101.0, snap.At(1, 0))
	records := snap.Records()
	require.Len(t, records, 30*HoursPerDay)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), records[0].Timestamp())
	assert.Equal(t, time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC), records[len(records)-1].Timestamp())
}
