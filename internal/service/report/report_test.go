package report

import (
	"bytes"
	"testing"
	"time"
)

func TestAttendanceExcel(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	hours := 8.5

	rows := []AttendanceRow{
		{Code: "E001", FullName: "Test Employee", Department: "Engineering", WorkDay: "2026-03-02", CheckIn: &in, CheckOut: &out, TotalHours: &hours, Status: "checked_out"},
		{Code: "E002", FullName: "Other Employee", WorkDay: "2026-03-02", CheckIn: &in, Status: "checked_in"},
	}

	data, err := AttendanceExcel(rows, "Attendance 2026-03-02")
	if err != nil {
		t.Fatalf("rendering excel: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("output is not a zip-based workbook")
	}
}

func TestAttendancePDF(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	hours := 8.0

	rows := []AttendanceRow{
		{Code: "E001", FullName: "Test Employee", WorkDay: "2026-03-02", CheckIn: &in, TotalHours: &hours, Status: "checked_out"},
	}

	data, err := AttendancePDF(rows, "Attendance 2026-03-02")
	if err != nil {
		t.Fatalf("rendering pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a pdf document")
	}
}

func TestPayrollExports(t *testing.T) {
	rows := []PayrollRow{
		{Code: "E001", FullName: "Test Employee", RegularHours: 160, OvertimeHours: 12, DaysWorked: 20, RegularPay: 240000, OvertimePay: 27000, GrossPay: 267000, Status: "calculated"},
	}

	xlsx, err := PayrollExcel(rows, "Payroll March 2026")
	if err != nil {
		t.Fatalf("rendering excel: %v", err)
	}
	if !bytes.HasPrefix(xlsx, []byte("PK")) {
		t.Error("excel output is not a zip-based workbook")
	}

	pdf, err := PayrollPDF(rows, "Payroll March 2026")
	if err != nil {
		t.Fatalf("rendering pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("pdf output is not a pdf document")
	}
}
