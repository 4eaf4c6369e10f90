package interfaces

import (
	"fmt"

	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/billing/format"
)

// RecordTimeLayout is the minute precision layout used for readings.
const RecordTimeLayout = "2006-01-02T15:04"

// RecordLine renders one reading with its cost.
func RecordLine(r billing.ConsumptionRecord) string {
	return fmt.Sprintf("  %s - kWh: %s - Costo: %s", r.Timestamp().Format(RecordTimeLayout), format.Fixed2(r.KWh()), format.COP(r.Cost()))
}

// BandLines renders per-band subtotals in band order.
func BandLines(totals [billing.BandCount]float64) []string {
	bands := billing.Bands()
	lines := make([]string, 0, len(bands))
	for _, band := range bands {
		lines = append(lines, fmt.Sprintf("  %s: %s", band.Band, format.KWh(totals[band.Band.Index()])))
	}
	return lines
}

// DayLines renders per-day subtotals.
func DayLines(totals []float64) []string {
	lines := make([]string, 0, len(totals))
	for i, kWh := range totals {
		lines = append(lines, fmt.Sprintf("  Día %02d del mes: %s", i+1, format.KWh(kWh)))
	}
	return lines
}
