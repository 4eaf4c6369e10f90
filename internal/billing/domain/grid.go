package billing

import (
	"fmt"
	"sync"
	"time"
)

// ConsumptionGrid holds the hourly kWh values of one meter for its loaded period.
// The zero value is an uninitialized grid.
type ConsumptionGrid struct {
	mu     sync.RWMutex
	period Period
	cells  [][HoursPerDay]float64
	now    func() time.Time
}

// NewConsumptionGrid returns an uninitialized grid.
func NewConsumptionGrid() *ConsumptionGrid {
	return &ConsumptionGrid{}
}

// NewConsumptionGridWithClock returns an uninitialized grid that bounds
// periods against now instead of the wall clock.
func NewConsumptionGridWithClock(now func() time.Time) *ConsumptionGrid {
	return &ConsumptionGrid{now: now}
}

// Initialize (re)creates the grid for period with every cell at 0.
func (g *ConsumptionGrid) Initialize(period Period) error {
	if err := period.validate(g.clock()); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset(period)
	return nil
}

// Period returns the loaded period and whether the grid is initialized.
func (g *ConsumptionGrid) Period() (Period, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.period, g.cells != nil
}

// IsLoadedFor reports whether the grid holds data for period.
func (g *ConsumptionGrid) IsLoadedFor(period Period) bool {
	loaded, ok := g.Period()
	return ok && loaded == period
}

// Get returns the kWh at day (1-based) and hour.
func (g *ConsumptionGrid) Get(day, hour int) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.checkCell(day, hour); err != nil {
		return 0, err
	}
	return g.cells[day-1][hour], nil
}

// Set stores value at day (1-based) and hour of the loaded period.
func (g *ConsumptionGrid) Set(day, hour int, value float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.set(day, hour, value)
}

// SetAt stores value for period, reinitializing the grid first when it is
// uninitialized or loaded for another period. It reports whether a reset happened.
func (g *ConsumptionGrid) SetAt(period Period, day, hour int, value float64) (bool, error) {
	if err := period.validate(g.clock()); err != nil {
		return false, err
	}
	if err := validateKWh(value); err != nil {
		return false, err
	}
	if day < 1 || day > period.Days() {
		return false, fmt.Errorf("%w: day %d is outside 1..%d for %s", ErrInvalidArgument, day, period.Days(), period)
	}
	if err := validateHour(hour); err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	reset := g.cells == nil || g.period != period
	if reset {
		g.reset(period)
	}
	return reset, g.set(day, hour, value)
}

// Snapshot returns a detached copy of the grid for reading.
func (g *ConsumptionGrid) Snapshot() GridSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.cells == nil {
		return GridSnapshot{}
	}
	cells := make([][HoursPerDay]float64, len(g.cells))
	copy(cells, g.cells)
	return GridSnapshot{period: g.period, cells: cells}
}

func (g *ConsumptionGrid) clock() time.Time {
	if g.now == nil {
		return time.Now()
	}
	return g.now()
}

func (g *ConsumptionGrid) reset(period Period) {
	g.period = period
	g.cells = make([][HoursPerDay]float64, period.Days())
}

func (g *ConsumptionGrid) set(day, hour int, value float64) error {
	if err := g.checkCell(day, hour); err != nil {
		return err
	}
	if err := validateKWh(value); err != nil {
		return err
	}
	g.cells[day-1][hour] = value
	return nil
}

func (g *ConsumptionGrid) checkCell(day, hour int) error {
	if g.cells == nil {
		return fmt.Errorf("%w: consumption grid is not initialized", ErrInvalidState)
	}
	if day < 1 || day > len(g.cells) {
		return fmt.Errorf("%w: day %d is outside 1..%d for %s", ErrInvalidArgument, day, len(g.cells), g.period)
	}
	return validateHour(hour)
}

// GridSnapshot is an immutable copy of a grid.
type GridSnapshot struct {
	period Period
	cells  [][HoursPerDay]float64
}

// Loaded reports whether the snapshot was taken from an initialized grid.
func (s GridSnapshot) Loaded() bool { return s.cells != nil }

// LoadedFor reports whether the snapshot holds data for period.
func (s GridSnapshot) LoadedFor(period Period) bool {
	return s.Loaded() && s.period == period
}

// Period returns the snapshot period.
func (s GridSnapshot) Period() Period { return s.period }

// Days returns the row count.
func (s GridSnapshot) Days() int { return len(s.cells) }

// At returns a cell value; day is 1-based. Callers stay within Days() and HoursPerDay.
func (s GridSnapshot) At(day, hour int) float64 {
	return s.cells[day-1][hour]
}

// Each visits every cell in chronological order.
func (s GridSnapshot) Each(fn func(day, hour int, kWh float64)) {
	for d := range s.cells {
		for h := 0; h < HoursPerDay; h++ {
			fn(d+1, h, s.cells[d][h])
		}
	}
}

// Records returns every cell as a ConsumptionRecord in chronological order.
func (s GridSnapshot) Records() []ConsumptionRecord {
	out := make([]ConsumptionRecord, 0, len(s.cells)*HoursPerDay)
	s.Each(func(day, hour int, kWh float64) {
		out = append(out, ConsumptionRecord{timestamp: s.period.HourStart(day, hour), kWh: kWh})
	})
	return out
}
