package interfaces

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"energy-billing/internal/billing/application"
	billing "energy-billing/internal/billing/domain"
)

func sampleInvoice() application.Invoice {
	return application.Invoice{
		ClientID: "c1",
		IDType:   "CC",
		Email:    "ana@example.com",
		Address:  "Calle 1",
		Period:   billing.Period{Year: 2025, Month: 2},
		Meters: []application.MeterStatement{
			{MeterID: "m1", Address: "Calle 10", City: "Medellín", Loaded: true, TotalKWh: 1650.99, TotalCost: 650295},
			{MeterID: "m2", Address: "Carrera 5", City: "Bogotá"},
		},
		Totals: application.InvoiceTotals{TotalKWh: 1650.99, TotalCost: 650295},
		Billed: true,
	}
}

func TestBuildInvoicePDF(t *testing.T) {
	out, err := BuildInvoicePDF(sampleInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuildInvoiceXLSX(t *testing.T) {
	out, err := BuildInvoiceXLSX(sampleInvoice(), []float64{310, 301})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	client, err := f.GetCellValue("factura", "B3")
	require.NoError(t, err)
	assert.Equal(t, "c1", client)

	meter, err := f.GetCellValue("factura", "A11")
	require.NoError(t, err)
	assert.Equal(t, "m2", meter)

	missing, err := f.GetCellValue("factura", "D11")
	require.NoError(t, err)
	assert.Equal(t, "Sin consumos cargados", missing)

	day, err := f.GetCellValue("consumo_diario", "B3")
	require.NoError(t, err)
	assert.Equal(t, "301", day)
}

func TestBuildInvoiceXLSX_WithoutDaily(t *testing.T) {
	out, err := BuildInvoiceXLSX(application.Invoice{ClientID: "c9"}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"factura"}, f.GetSheetList())
}
