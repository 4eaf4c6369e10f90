package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"energy-billing/internal/eventbus"
	masterdata "energy-billing/internal/masterdata/domain"
)

// ClientUpdate carries the editable contact fields. Nil fields stay unchanged.
type ClientUpdate struct {
	IDType  *string
	Email   *string
	Address *string
}

// ClientService manages clients and their meters.
type ClientService struct {
	repo      masterdata.ClientRepository
	publisher eventbus.Publisher
	logger    *zap.Logger
}

// NewClientService constructs the service. publisher may be nil.
func NewClientService(repo masterdata.ClientRepository, publisher eventbus.Publisher, logger *zap.Logger) (*ClientService, error) {
	if repo == nil {
		return nil, errors.New("client service: nil repository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{repo: repo, publisher: publisher, logger: logger}, nil
}

// CreateClient registers a new client.
func (s *ClientService) CreateClient(ctx context.Context, id, idType, email, address string) (*masterdata.Client, error) {
	client, err := masterdata.NewClient(id, idType, email, address)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	s.logger.Info("client created", zap.String("client_id", id))
	return client, nil
}

// UpdateClient edits contact fields of an existing client.
func (s *ClientService) UpdateClient(ctx context.Context, id string, update ClientUpdate) (*masterdata.Client, error) {
	if id == "" {
		return nil, masterdata.ErrEmptyClientID
	}
	client, err := s.repo.Update(ctx, id, func(c *masterdata.Client) error {
		if update.IDType != nil {
			c.IDType = *update.IDType
		}
		if update.Email != nil {
			c.Email = *update.Email
		}
		if update.Address != nil {
			c.Address = *update.Address
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("client updated", zap.String("client_id", id))
	return client, nil
}

// GetClient loads a client or fails with ErrClientNotFound.
func (s *ClientService) GetClient(ctx context.Context, id string) (*masterdata.Client, error) {
	if id == "" {
		return nil, masterdata.ErrEmptyClientID
	}
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s", masterdata.ErrClientNotFound, id)
	}
	return client, nil
}

// ListClients returns every registered client.
func (s *ClientService) ListClients(ctx context.Context) ([]*masterdata.Client, error) {
	return s.repo.List(ctx)
}

// AddMeter creates a meter and attaches it to a client.
func (s *ClientService) AddMeter(ctx context.Context, clientID, meterID, address, city string) (masterdata.Meter, error) {
	if clientID == "" {
		return masterdata.Meter{}, masterdata.ErrEmptyClientID
	}
	meter, err := masterdata.NewMeter(meterID, address, city)
	if err != nil {
		return masterdata.Meter{}, err
	}
	if _, err := s.repo.Update(ctx, clientID, func(c *masterdata.Client) error {
		return c.AddMeter(meter)
	}); err != nil {
		return masterdata.Meter{}, err
	}
	s.logger.Info("meter added", zap.String("client_id", clientID), zap.String("meter_id", meterID))
	return meter, nil
}

// UpdateMeter edits address and city of an owned meter.
func (s *ClientService) UpdateMeter(ctx context.Context, clientID, meterID, address, city string) (masterdata.Meter, error) {
	if clientID == "" {
		return masterdata.Meter{}, masterdata.ErrEmptyClientID
	}
	var meter masterdata.Meter
	if _, err := s.repo.Update(ctx, clientID, func(c *masterdata.Client) error {
		var err error
		meter, err = c.UpdateMeter(meterID, address, city)
		return err
	}); err != nil {
		return masterdata.Meter{}, err
	}
	return meter, nil
}

// RemoveMeter detaches a meter and emits MeterRemoved.
func (s *ClientService) RemoveMeter(ctx context.Context, clientID, meterID string) error {
	if clientID == "" {
		return masterdata.ErrEmptyClientID
	}
	if _, err := s.repo.Update(ctx, clientID, func(c *masterdata.Client) error {
		return c.RemoveMeter(meterID)
	}); err != nil {
		return err
	}
	s.logger.Info("meter removed", zap.String("client_id", clientID), zap.String("meter_id", meterID))
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, MeterRemoved{ClientID: clientID, MeterID: meterID})
}

// GetMeter finds one meter of a client.
func (s *ClientService) GetMeter(ctx context.Context, clientID, meterID string) (masterdata.Meter, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return masterdata.Meter{}, err
	}
	meter, ok := client.Meter(meterID)
	if !ok {
		return masterdata.Meter{}, fmt.Errorf("%w: %s/%s", masterdata.ErrMeterNotFound, clientID, meterID)
	}
	return meter, nil
}
