package application

import (
	"strconv"
	"strings"

	"energy-billing/internal/billing/format"
)

const (
	invoiceRule = "========================================"
	invoiceDash = "----------------------------------------"
)

// RenderInvoiceText lays out an invoice as printable text.
func RenderInvoiceText(inv Invoice) string {
	var b strings.Builder
	line := func(parts ...string) {
		for _, p := range parts {
			b.WriteString(p)
		}
		b.WriteByte('\n')
	}

	line(invoiceRule)
	line("         FACTURA DE CONSUMO ELÉCTRICO")
	line(invoiceRule)
	line("Cliente: ", inv.ClientID, " (", inv.IDType, ")")
	line("Correo: ", inv.Email)
	line("Dirección: ", inv.Address)
	line("Periodo Facturado: ", inv.Period.String())
	line(invoiceDash)
	line("Detalle de Consumos por Medidor:")
	if len(inv.Meters) == 0 {
		line()
		line("  ** Este cliente no tiene medidores de energía asociados. **")
	}
	for _, m := range inv.Meters {
		line()
		line("  Medidor ID: ", m.MeterID)
		line("  Ubicación: ", m.Address, ", ", m.City)
		if !m.Loaded {
			line("    - Consumos para el periodo ", strconv.Itoa(int(inv.Period.Month)), "/", strconv.Itoa(inv.Period.Year),
				" no están cargados actualmente para este medidor.")
			continue
		}
		line("    Consumo Total del Medidor: ", format.KWh(m.TotalKWh))
		line("    Valor Total del Medidor: ", format.COP(m.TotalCost))
	}
	line(invoiceDash)
	line("CONSUMO TOTAL GENERAL DEL CLIENTE: ", format.KWh(inv.Totals.TotalKWh))
	line("VALOR TOTAL A PAGAR POR EL CLIENTE: ", format.COP(inv.Totals.TotalCost))
	line(invoiceRule)
	return b.String()
}
