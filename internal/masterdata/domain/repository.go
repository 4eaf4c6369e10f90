package masterdata

import "context"

// ClientRepository persists clients with their meters.
type ClientRepository interface {
	Get(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
	Create(ctx context.Context, client *Client) error
	Save(ctx context.Context, client *Client) error
	// Update applies mutate to the stored client atomically. The change is
	// discarded when mutate fails.
	Update(ctx context.Context, id string, mutate func(*Client) error) (*Client, error)
}
