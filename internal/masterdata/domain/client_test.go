package masterdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresID(t *testing.T) {
	_, err := NewClient("  ", "CC", "x@example.com", "Calle 1")
	assert.ErrorIs(t, err, ErrEmptyClientID)

	_, err = NewMeter("", "Calle 1", "Cali")
	assert.ErrorIs(t, err, ErrEmptyMeterID)
}

func TestClient_MeterLifecycle(t *testing.T) {
	client, err := NewClient("900123", "NIT", "x@example.com", "Calle 1")
	require.NoError(t, err)

	m1, err := NewMeter("M-1", "Cra 5", "Cali")
	require.NoError(t, err)
	m2, err := NewMeter("M-2", "Cra 6", "Palmira")
	require.NoError(t, err)

	require.NoError(t, client.AddMeter(m1))
	require.NoError(t, client.AddMeter(m2))
	assert.ErrorIs(t, client.AddMeter(m1), ErrDuplicateMeter)

	meters := client.Meters()
	require.Len(t, meters, 2)
	assert.Equal(t, "M-1", meters[0].ID())
	assert.Equal(t, "M-2", meters[1].ID())

	meters[0].City = "changed"
	got, ok := client.Meter("M-1")
	require.True(t, ok)
	assert.Equal(t, "Cali", got.City, "Meters returns a copy")

	updated, err := client.UpdateMeter("M-2", "Cra 7", "Yumbo")
	require.NoError(t, err)
	assert.Equal(t, "Yumbo", updated.City)

	require.NoError(t, client.RemoveMeter("M-1"))
	assert.ErrorIs(t, client.RemoveMeter("M-1"), ErrMeterNotFound)
	assert.ErrorIs(t, client.RemoveMeter("M-1"), ErrNotFound)
	_, err = client.UpdateMeter("M-9", "", "")
	assert.ErrorIs(t, err, ErrMeterNotFound)
	assert.Len(t, client.Meters(), 1)
}

func TestClient_Summary(t *testing.T) {
	client, err := NewClient("900123", "NIT", "x@example.com", "Calle 1")
	require.NoError(t, err)
	assert.Equal(t, "Cliente {ID: '900123', Tipo ID: 'NIT', Correo: 'x@example.com', Dirección: 'Calle 1', Cantidad de Medidores: 0}", client.Summary())

	meter, err := NewMeter("M-1", "Cra 5", "Cali")
	require.NoError(t, err)
	assert.Equal(t, "Medidor {ID: 'M-1', Dirección: 'Cra 5', Ciudad: 'Cali', Periodo cargado: No disponible}", meter.Summary(""))
}
