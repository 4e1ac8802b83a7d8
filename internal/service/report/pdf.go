package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
)

// AttendancePDF renders the rows as a printable table.
func AttendancePDF(rows []AttendanceRow, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	headers := []string{"Code", "Full Name", "Department", "Work Day", "Check In", "Check Out", "Hours", "Status"}
	widths := []float64{25, 60, 40, 30, 25, 25, 20, 30}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, entry := range rows {
		hours := ""
		if entry.TotalHours != nil {
			hours = fmt.Sprintf("%.2f", *entry.TotalHours)
		}

		cols := []string{
			entry.Code,
			entry.FullName,
			entry.Department,
			entry.WorkDay,
			formatTime(entry.CheckIn),
			formatTime(entry.CheckOut),
			hours,
			entry.Status,
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// PayrollPDF renders a payroll period as a printable table.
func PayrollPDF(rows []PayrollRow, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	headers := []string{"Code", "Full Name", "Reg. Hours", "OT Hours", "Days", "Reg. Pay", "OT Pay", "Gross", "Status"}
	widths := []float64{25, 60, 25, 25, 18, 30, 30, 30, 28}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	var totalGross int
	for _, entry := range rows {
		cols := []string{
			entry.Code,
			entry.FullName,
			fmt.Sprintf("%.2f", entry.RegularHours),
			fmt.Sprintf("%.2f", entry.OvertimeHours),
			fmt.Sprintf("%d", entry.DaysWorked),
			fmt.Sprintf("%.2f", cents(entry.RegularPay)),
			fmt.Sprintf("%.2f", cents(entry.OvertimePay)),
			fmt.Sprintf("%.2f", cents(entry.GrossPay)),
			entry.Status,
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		totalGross += entry.GrossPay
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(183, 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", cents(totalGross)), "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 8, "", "1", 0, "L", true, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	return buf.Bytes(), nil
}
