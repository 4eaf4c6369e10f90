package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"energy-billing/internal/billing/application"
	"energy-billing/internal/billing/format"
	"energy-billing/internal/observability/metrics"
)

// BuildInvoicePDF renders an invoice as a one page PDF.
func BuildInvoicePDF(inv application.Invoice) ([]byte, error) {
	start := time.Now()
	out, err := buildInvoicePDF(inv)
	metrics.ObserveExport("pdf", resultOf(err), time.Since(start))
	return out, err
}

func buildInvoicePDF(inv application.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Factura de Consumo Eléctrico"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Cliente: %s (%s)", inv.ClientID, inv.IDType)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Correo: "+inv.Email))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Dirección: "+inv.Address))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Periodo Facturado: "+inv.Period.String()))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, tr("Medidor"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 6, tr("Ubicación"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Consumo (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Valor (COP)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, m := range inv.Meters {
		pdf.CellFormat(30, 6, tr(m.MeterID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, tr(m.Address+", "+m.City), "1", 0, "L", false, 0, "")
		if m.Loaded {
			pdf.CellFormat(40, 6, format.Fixed2(m.TotalKWh), "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, 6, format.Fixed2(m.TotalCost), "1", 0, "R", false, 0, "")
		} else {
			pdf.CellFormat(85, 6, tr("Sin consumos cargados"), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Consumo total: "+format.KWh(inv.Totals.TotalKWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Valor total a pagar: "+format.COP(inv.Totals.TotalCost))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildInvoiceXLSX renders an invoice workbook with a summary sheet and,
// when daily is not empty, a per-day consumption sheet.
func BuildInvoiceXLSX(inv application.Invoice, daily []float64) ([]byte, error) {
	start := time.Now()
	out, err := buildInvoiceXLSX(inv, daily)
	metrics.ObserveExport("xlsx", resultOf(err), time.Since(start))
	return out, err
}

func buildInvoiceXLSX(inv application.Invoice, daily []float64) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "factura"
	daysSheet := "consumo_diario"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Factura de Consumo Eléctrico")
	_ = f.SetCellValue(summarySheet, "A3", "Cliente")
	_ = f.SetCellValue(summarySheet, "B3", inv.ClientID)
	_ = f.SetCellValue(summarySheet, "A4", "Tipo ID")
	_ = f.SetCellValue(summarySheet, "B4", inv.IDType)
	_ = f.SetCellValue(summarySheet, "A5", "Correo")
	_ = f.SetCellValue(summarySheet, "B5", inv.Email)
	_ = f.SetCellValue(summarySheet, "A6", "Dirección")
	_ = f.SetCellValue(summarySheet, "B6", inv.Address)
	_ = f.SetCellValue(summarySheet, "A7", "Periodo")
	_ = f.SetCellValue(summarySheet, "B7", inv.Period.String())

	_ = f.SetCellValue(summarySheet, "A9", "Medidor")
	_ = f.SetCellValue(summarySheet, "B9", "Dirección")
	_ = f.SetCellValue(summarySheet, "C9", "Ciudad")
	_ = f.SetCellValue(summarySheet, "D9", "Consumo (kWh)")
	_ = f.SetCellValue(summarySheet, "E9", "Valor (COP)")
	row := 10
	for _, m := range inv.Meters {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), m.MeterID)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), m.Address)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), m.City)
		if m.Loaded {
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), format.Round2(m.TotalKWh))
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), format.Round2(m.TotalCost))
		} else {
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), "Sin consumos cargados")
		}
		row++
	}
	row++
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Consumo total (kWh)")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), format.Round2(inv.Totals.TotalKWh))
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row+1), "Valor total (COP)")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row+1), format.Round2(inv.Totals.TotalCost))

	if len(daily) > 0 {
		if _, err := f.NewSheet(daysSheet); err != nil {
			return nil, err
		}
		_ = f.SetCellValue(daysSheet, "A1", "Día")
		_ = f.SetCellValue(daysSheet, "B1", "Consumo (kWh)")
		for i, kWh := range daily {
			_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", i+2), i+1)
			_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", i+2), format.Round2(kWh))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resultOf(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultSuccess
}
