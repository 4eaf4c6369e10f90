package billing

import (
	"fmt"
	"time"
)

const (
	// MinYear is the oldest year a consumption period may be loaded for.
	MinYear = 1900
	// MaxYearsAhead bounds how far past the current year a period may be.
	MaxYearsAhead = 5
	// HoursPerDay is the fixed column count of a consumption grid.
	HoursPerDay = 24
)

// Period identifies a billing month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates year and month against now and builds a Period.
func NewPeriod(year, month int, now time.Time) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidArgument, month)
	}
	maxYear := now.Year() + MaxYearsAhead
	if year < MinYear || year > maxYear {
		return Period{}, fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidArgument, MinYear, maxYear, year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the period a timestamp falls into.
func PeriodOf(ts time.Time) Period {
	return Period{Year: ts.Year(), Month: ts.Month()}
}

// Days returns the calendar day count of the period.
func (p Period) Days() int {
	return DaysInMonth(p.Year, p.Month)
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// Start returns midnight of the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// HourStart returns the timestamp of a grid cell.
func (p Period) HourStart(day, hour int) time.Time {
	return time.Date(p.Year, p.Month, day, hour, 0, 0, 0, time.UTC)
}

// String renders MM/YYYY.
func (p Period) String() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// DaysInMonth returns the number of days of a month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p Period) validate(now time.Time) error {
	_, err := NewPeriod(p.Year, int(p.Month), now)
	return err
}
