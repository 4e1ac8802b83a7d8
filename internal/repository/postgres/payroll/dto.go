package payroll

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Status *string
}

type CreatePeriodRequest struct {
	Name      *string `json:"name" form:"name"`
	StartDate *string `json:"start_date" form:"start_date"`
	EndDate   *string `json:"end_date" form:"end_date"`
}

type CreatePeriodResponse struct {
	bun.BaseModel `bun:"table:payroll_periods"`

	ID        int       `json:"id" bun:"-"`
	Name      *string   `json:"name" bun:"name"`
	StartDate *string   `json:"start_date" bun:"start_date"`
	EndDate   *string   `json:"end_date" bun:"end_date"`
	Status    string    `json:"status" bun:"status"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type PeriodListResponse struct {
	ID        int     `json:"id"`
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    string  `json:"status"`
	Records   int     `json:"records"`
}

type RecordResponse struct {
	ID            int      `json:"id"`
	EmployeeID    int      `json:"employee_id"`
	Code          *string  `json:"code"`
	FullName      *string  `json:"full_name"`
	RegularHours  float64  `json:"regular_hours"`
	OvertimeHours float64  `json:"overtime_hours"`
	DaysWorked    int      `json:"days_worked"`
	RegularPay    int      `json:"regular_pay"`
	OvertimePay   int      `json:"overtime_pay"`
	GrossPay      int      `json:"gross_pay"`
	Status        string   `json:"status"`
	ApprovedBy    *int     `json:"approved_by"`
	Approver      *string  `json:"approver"`
}

type CalculateResponse struct {
	PeriodID      int `json:"period_id"`
	RecordsCreated int `json:"records_created"`
}
