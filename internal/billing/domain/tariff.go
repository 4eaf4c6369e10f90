package billing

import "fmt"

// Band is one of the fixed time-of-day tariff bands.
type Band int

const (
	// BandNone means no band applies to a reading.
	BandNone Band = iota
	// BandNight covers 00:00-06:59 readings of 100-300 kWh.
	BandNight
	// BandDay covers 07:00-17:59 readings above 300 and up to 600 kWh.
	BandDay
	// BandEvening covers 18:00-23:59 readings above 600 and below 1000 kWh.
	BandEvening
)

// BandCount is the number of real tariff bands.
const BandCount = 3

// TariffBand is the constant rule behind a Band.
type TariffBand struct {
	Band      Band
	StartHour int
	EndHour   int
	MinKWh    float64
	MaxKWh    float64
	// MinInclusive and MaxInclusive state whether the kWh bounds belong to the band.
	MinInclusive bool
	MaxInclusive bool
	PricePerKWh  float64
}

var tariffBands = [BandCount]TariffBand{
	{Band: BandNight, StartHour: 0, EndHour: 6, MinKWh: 100, MaxKWh: 300, MinInclusive: true, MaxInclusive: true, PricePerKWh: 200},
	{Band: BandDay, StartHour: 7, EndHour: 17, MinKWh: 300, MaxKWh: 600, MinInclusive: false, MaxInclusive: true, PricePerKWh: 300},
	{Band: BandEvening, StartHour: 18, EndHour: 23, MinKWh: 600, MaxKWh: 1000, MinInclusive: false, MaxInclusive: false, PricePerKWh: 500},
}

// Bands returns the tariff bands in hour order.
func Bands() []TariffBand {
	out := make([]TariffBand, len(tariffBands))
	copy(out, tariffBands[:])
	return out
}

// Index returns the zero-based position of the band, or -1 for BandNone.
func (b Band) Index() int {
	if b < BandNight || b > BandEvening {
		return -1
	}
	return int(b) - 1
}

// String returns the band label used in reports.
func (b Band) String() string {
	switch b {
	case BandNight:
		return "Franja 1 (00:00-06:00)"
	case BandDay:
		return "Franja 2 (07:00-17:00)"
	case BandEvening:
		return "Franja 3 (18:00-23:00)"
	default:
		return "Sin franja"
	}
}

// Rule returns the constant rule of the band.
func (b Band) Rule() (TariffBand, bool) {
	idx := b.Index()
	if idx < 0 {
		return TariffBand{}, false
	}
	return tariffBands[idx], true
}

// CoversHour reports whether hour falls in the band's hour range.
func (t TariffBand) CoversHour(hour int) bool {
	return hour >= t.StartHour && hour <= t.EndHour
}

// AcceptsKWh reports whether kWh falls in the band's magnitude range.
func (t TariffBand) AcceptsKWh(kWh float64) bool {
	if t.MinInclusive {
		if kWh < t.MinKWh {
			return false
		}
	} else if kWh <= t.MinKWh {
		return false
	}
	if t.MaxInclusive {
		return kWh <= t.MaxKWh
	}
	return kWh < t.MaxKWh
}

// BandForHour classifies an hour by time of day only.
func BandForHour(hour int) (Band, error) {
	if err := validateHour(hour); err != nil {
		return BandNone, err
	}
	for _, t := range tariffBands {
		if t.CoversHour(hour) {
			return t.Band, nil
		}
	}
	return BandNone, nil
}

// ResolveBand returns the band that prices a reading of kWh at hour.
// A magnitude outside the hour's band range yields BandNone without error.
func ResolveBand(hour int, kWh float64) (Band, error) {
	band, err := BandForHour(hour)
	if err != nil {
		return BandNone, err
	}
	rule, ok := band.Rule()
	if !ok || !rule.AcceptsKWh(kWh) {
		return BandNone, nil
	}
	return band, nil
}

// PriceFor returns the price per kWh of a reading, 0 when no band applies.
func PriceFor(hour int, kWh float64) (float64, error) {
	band, err := ResolveBand(hour, kWh)
	if err != nil {
		return 0, err
	}
	rule, ok := band.Rule()
	if !ok {
		return 0, nil
	}
	return rule.PricePerKWh, nil
}

func validateHour(hour int) error {
	if hour < 0 || hour >= HoursPerDay {
		return fmt.Errorf("%w: hour must be between 0 and 23, got %d", ErrInvalidArgument, hour)
	}
	return nil
}
