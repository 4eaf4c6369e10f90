package masterdata

import (
	"fmt"
	"strings"
)

// Client is a non-regulated electricity customer.
type Client struct {
	id      string
	IDType  string
	Email   string
	Address string
	meters  []Meter
}

// NewClient builds a client without meters; the id is required and immutable.
func NewClient(id, idType, email, address string) (*Client, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyClientID
	}
	return &Client{id: id, IDType: idType, Email: email, Address: address}, nil
}

// ID returns the client id.
func (c *Client) ID() string { return c.id }

// Meters returns a copy of the client's meters in insertion order.
func (c *Client) Meters() []Meter {
	out := make([]Meter, len(c.meters))
	copy(out, c.meters)
	return out
}

// AddMeter appends a meter unless one with the same id is already owned.
func (c *Client) AddMeter(m Meter) error {
	if m.id == "" {
		return ErrEmptyMeterID
	}
	if _, ok := c.Meter(m.id); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMeter, m.id)
	}
	c.meters = append(c.meters, m)
	return nil
}

// Meter finds a meter by id.
func (c *Client) Meter(id string) (Meter, bool) {
	for _, m := range c.meters {
		if m.id == id {
			return m, true
		}
	}
	return Meter{}, false
}

// UpdateMeter replaces the mutable fields of an owned meter.
func (c *Client) UpdateMeter(id, address, city string) (Meter, error) {
	for i := range c.meters {
		if c.meters[i].id == id {
			c.meters[i].Address = address
			c.meters[i].City = city
			return c.meters[i], nil
		}
	}
	return Meter{}, fmt.Errorf("%w: %s", ErrMeterNotFound, id)
}

// RemoveMeter drops an owned meter.
func (c *Client) RemoveMeter(id string) error {
	for i := range c.meters {
		if c.meters[i].id == id {
			c.meters = append(c.meters[:i:i], c.meters[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMeterNotFound, id)
}

// Clone returns a detached copy.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	copy := *c
	copy.meters = c.Meters()
	return &copy
}

// Summary renders a one-line description of the client.
func (c *Client) Summary() string {
	return fmt.Sprintf("Cliente {ID: '%s', Tipo ID: '%s', Correo: '%s', Dirección: '%s', Cantidad de Medidores: %d}",
		c.id, c.IDType, c.Email, c.Address, len(c.meters))
}
