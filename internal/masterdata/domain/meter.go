package masterdata

import (
	"fmt"
	"strings"
)

// Meter is a metering point owned by one client.
type Meter struct {
	id      string
	Address string
	City    string
}

// NewMeter builds a meter; the id is required and immutable.
func NewMeter(id, address, city string) (Meter, error) {
	if strings.TrimSpace(id) == "" {
		return Meter{}, ErrEmptyMeterID
	}
	return Meter{id: id, Address: address, City: city}, nil
}

// ID returns the meter id.
func (m Meter) ID() string { return m.id }

// Summary renders a one-line description of the meter.
func (m Meter) Summary(loaded string) string {
	if loaded == "" {
		loaded = "No disponible"
	}
	return fmt.Sprintf("Medidor {ID: '%s', Dirección: '%s', Ciudad: '%s', Periodo cargado: %s}", m.id, m.Address, m.City, loaded)
}
