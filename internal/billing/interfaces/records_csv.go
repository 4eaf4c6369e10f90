package interfaces

import (
	"encoding/csv"
	"io"

	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/billing/format"
)

// WriteRecordsCSV writes readings as timestamp,kwh,band,cost rows with a header.
func WriteRecordsCSV(w io.Writer, records []billing.ConsumptionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "kwh", "band", "cost_cop"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp().Format(RecordTimeLayout),
			format.Fixed2(r.KWh()),
			r.Band().String(),
			format.Fixed2(r.Cost()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
