package interfaces

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "energy-billing/internal/billing/domain"
)

func TestRecordLine(t *testing.T) {
	r, err := billing.NewConsumptionRecord(time.Date(2025, time.May, 15, 5, 0, 0, 0, time.UTC), 300)
	require.NoError(t, err)
	assert.Equal(t, "  2025-05-15T05:00 - kWh: 300.00 - Costo: 60000.00 COP", RecordLine(r))
}

func TestBandLines(t *testing.T) {
	lines := BandLines([billing.BandCount]float64{350, 301, 0.125})
	assert.Equal(t, []string{
		"  Franja 1 (00:00-06:00): 350.00 kWh",
		"  Franja 2 (07:00-17:00): 301.00 kWh",
		"  Franja 3 (18:00-23:00): 0.13 kWh",
	}, lines)
}

func TestDayLines(t *testing.T) {
	lines := DayLines([]float64{1.5, 0})
	assert.Equal(t, []string{"  Día 01 del mes: 1.50 kWh", "  Día 02 del mes: 0.00 kWh"}, lines)
}

func TestWriteRecordsCSV(t *testing.T) {
	a, err := billing.NewConsumptionRecord(time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC), 301)
	require.NoError(t, err)
	b, err := billing.NewConsumptionRecord(time.Date(2025, time.May, 15, 3, 0, 0, 0, time.UTC), 50)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, []billing.ConsumptionRecord{a, b}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,kwh,band,cost_cop", lines[0])
	assert.Equal(t, "2025-05-15T10:00,301.00,Franja 2 (07:00-17:00),90300.00", lines[1])
	assert.Equal(t, "2025-05-15T03:00,50.00,Sin franja,0.00", lines[2])
}
