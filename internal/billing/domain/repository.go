package billing

import (
	"context"
	"fmt"
	"strings"
)

// MeterRef addresses a meter; meter ids are unique only within their client.
type MeterRef struct {
	ClientID string
	MeterID  string
}

// Validate checks both ids are present.
func (r MeterRef) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" {
		return fmt.Errorf("%w: client id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(r.MeterID) == "" {
		return fmt.Errorf("%w: meter id is required", ErrInvalidArgument)
	}
	return nil
}

func (r MeterRef) String() string {
	return r.ClientID + "/" + r.MeterID
}

// GridStore keeps one consumption grid per meter.
type GridStore interface {
	// Grid returns the grid of ref, creating an uninitialized one when absent.
	Grid(ctx context.Context, ref MeterRef) (*ConsumptionGrid, error)
	// Lookup returns the grid of ref or nil when none exists.
	Lookup(ctx context.Context, ref MeterRef) (*ConsumptionGrid, error)
	// Delete drops the grid of ref.
	Delete(ctx context.Context, ref MeterRef) error
}
