package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	masterdata "energy-billing/internal/masterdata/domain"
)

func TestClientRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository()

	a, err := masterdata.NewClient("900123", "NIT", "a@example.com", "Calle 1")
	require.NoError(t, err)
	b, err := masterdata.NewClient("100200", "CC", "b@example.com", "Calle 2")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.ErrorIs(t, repo.Create(ctx, a), masterdata.ErrDuplicateClient)

	got, err := repo.Get(ctx, "900123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@example.com", got.Email)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "900123", list[0].ID())
	assert.Equal(t, "100200", list[1].ID())
}

func TestClientRepository_ReturnsDetachedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository()
	client, err := masterdata.NewClient("900123", "NIT", "a@example.com", "Calle 1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, client))

	loaded, err := repo.Get(ctx, "900123")
	require.NoError(t, err)
	meter, err := masterdata.NewMeter("M-1", "Calle 1", "Cali")
	require.NoError(t, err)
	require.NoError(t, loaded.AddMeter(meter))

	again, err := repo.Get(ctx, "900123")
	require.NoError(t, err)
	assert.Empty(t, again.Meters(), "unsaved changes must not leak into the store")

	require.NoError(t, repo.Save(ctx, loaded))
	again, err = repo.Get(ctx, "900123")
	require.NoError(t, err)
	assert.Len(t, again.Meters(), 1)
}

func TestClientRepository_SaveUnknown(t *testing.T) {
	repo := NewClientRepository()
	client, err := masterdata.NewClient("1", "CC", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(context.Background(), client), masterdata.ErrClientNotFound)
	assert.ErrorIs(t, repo.Save(context.Background(), nil), masterdata.ErrNilClient)
}

func TestClientRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository()
	client, err := masterdata.NewClient("1", "CC", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, client))
	meter, err := masterdata.NewMeter("M-1", "Cra 5", "Cali")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "1", func(c *masterdata.Client) error { return c.AddMeter(meter) })
	require.NoError(t, err)
	assert.Len(t, updated.Meters(), 1)

	_, err = repo.Update(ctx, "1", func(c *masterdata.Client) error {
		c.Email = "lost@example.com"
		return c.AddMeter(meter)
	})
	assert.ErrorIs(t, err, masterdata.ErrDuplicateMeter)
	stored, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, stored.Email, "failed mutation is discarded")

	_, err = repo.Update(ctx, "2", func(*masterdata.Client) error { return nil })
	assert.ErrorIs(t, err, masterdata.ErrClientNotFound)
	_, err = repo.Update(ctx, "", func(*masterdata.Client) error { return nil })
	assert.ErrorIs(t, err, masterdata.ErrEmptyClientID)
}
