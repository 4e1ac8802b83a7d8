package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// AttendanceRow is one exported attendance line.
type AttendanceRow struct {
	Code       string
	FullName   string
	Department string
	WorkDay    string
	CheckIn    *time.Time
	CheckOut   *time.Time
	TotalHours *float64
	Status     string
}

// AttendanceExcel renders the rows into an xlsx workbook and returns the
// file bytes.
func AttendanceExcel(rows []AttendanceRow, title string) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", title)

	headers := []string{"Code", "Full Name", "Department", "Work Day", "Check In", "Check Out", "Total Hours", "Status"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c2", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 3
	for _, entry := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Department)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.WorkDay)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), formatTime(entry.CheckIn))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), formatTime(entry.CheckOut))
		if entry.TotalHours != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), *entry.TotalHours)
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), entry.Status)
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// PayrollRow is one exported payroll line. Pay amounts are in cents.
type PayrollRow struct {
	Code          string
	FullName      string
	RegularHours  float64
	OvertimeHours float64
	DaysWorked    int
	RegularPay    int
	OvertimePay   int
	GrossPay      int
	Status        string
}

// PayrollExcel renders a payroll period into an xlsx workbook.
func PayrollExcel(rows []PayrollRow, title string) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", title)

	headers := []string{"Code", "Full Name", "Regular Hours", "Overtime Hours", "Days Worked", "Regular Pay", "Overtime Pay", "Gross Pay", "Status"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c2", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 3
	for _, entry := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.RegularHours)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.OvertimeHours)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.DaysWorked)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), cents(entry.RegularPay))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), cents(entry.OvertimePay))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), cents(entry.GrossPay))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), entry.Status)
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func formatTime(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format("15:04")
}

func cents(amount int) float64 {
	return float64(amount) / 100
}
