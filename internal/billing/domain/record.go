package billing

import (
	"fmt"
	"math"
	"time"
)

// ConsumptionRecord is one hourly reading.
type ConsumptionRecord struct {
	timestamp time.Time
	kWh       float64
}

// NewConsumptionRecord validates and builds a record.
func NewConsumptionRecord(timestamp time.Time, kWh float64) (ConsumptionRecord, error) {
	if timestamp.IsZero() {
		return ConsumptionRecord{}, fmt.Errorf("%w: record timestamp is required", ErrInvalidArgument)
	}
	if err := validateKWh(kWh); err != nil {
		return ConsumptionRecord{}, err
	}
	return ConsumptionRecord{timestamp: timestamp, kWh: kWh}, nil
}

// Timestamp returns the reading time.
func (r ConsumptionRecord) Timestamp() time.Time { return r.timestamp }

// KWh returns the consumed energy.
func (r ConsumptionRecord) KWh() float64 { return r.kWh }

// Band returns the tariff band pricing the record.
func (r ConsumptionRecord) Band() Band {
	band, err := ResolveBand(r.timestamp.Hour(), r.kWh)
	if err != nil {
		return BandNone
	}
	return band
}

// Cost returns kWh times the band price, or 0 when no band applies.
func (r ConsumptionRecord) Cost() float64 {
	rule, ok := r.Band().Rule()
	if !ok {
		return 0
	}
	return r.kWh * rule.PricePerKWh
}

// Equal reports whether both records carry the same timestamp and kWh.
func (r ConsumptionRecord) Equal(other ConsumptionRecord) bool {
	return r.timestamp.Equal(other.timestamp) && r.kWh == other.kWh
}

func validateKWh(kWh float64) error {
	if math.IsNaN(kWh) || math.IsInf(kWh, 0) {
		return fmt.Errorf("%w: kWh must be a finite number", ErrInvalidArgument)
	}
	if kWh < 0 {
		return fmt.Errorf("%w: kWh cannot be negative, got %v", ErrInvalidArgument, kWh)
	}
	return nil
}
