package entity

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PayrollPeriodDraft     = "draft"
	PayrollPeriodCompleted = "completed"
	PayrollPeriodPaid      = "paid"

	PayrollRecordCalculated = "calculated"
	PayrollRecordApproved   = "approved"
)

type PayrollPeriod struct {
	bun.BaseModel `bun:"table:payroll_periods"`

	BasicEntity
	Name      *string `json:"name" bun:"name"`
	StartDate *string `json:"start_date" bun:"start_date"`
	EndDate   *string `json:"end_date" bun:"end_date"`
	Status    *string `json:"status" bun:"status"`
}

type PayrollRecord struct {
	bun.BaseModel `bun:"table:payroll_records"`

	ID         int `json:"id" bun:"id,pk,autoincrement"`
	EmployeeID int `json:"employee_id" bun:"employee_id"`
	PeriodID   int `json:"period_id" bun:"period_id"`

	TotalHours    float64 `json:"total_hours" bun:"total_hours"`
	RegularHours  float64 `json:"regular_hours" bun:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours" bun:"overtime_hours"`
	DaysWorked    int     `json:"days_worked" bun:"days_worked"`

	// Amounts are in cents, matching Employee.HourlyRate.
	RegularPay  int `json:"regular_pay" bun:"regular_pay"`
	OvertimePay int `json:"overtime_pay" bun:"overtime_pay"`
	GrossPay    int `json:"gross_pay" bun:"gross_pay"`
	NetPay      int `json:"net_pay" bun:"net_pay"`

	Status     string     `json:"status" bun:"status"`
	Notes      *string    `json:"notes" bun:"notes"`
	CreatedAt  time.Time  `json:"created_at" bun:"created_at"`
	ApprovedBy *int       `json:"approved_by" bun:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at" bun:"approved_at"`
}
