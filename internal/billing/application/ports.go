package application

import (
	"context"
	"time"

	masterdata "energy-billing/internal/masterdata/domain"
)

// ClientDirectory resolves clients and their meters.
type ClientDirectory interface {
	GetClient(ctx context.Context, id string) (*masterdata.Client, error)
	ListClients(ctx context.Context) ([]*masterdata.Client, error)
	GetMeter(ctx context.Context, clientID, meterID string) (masterdata.Meter, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
