package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance statuses written by the ledger. Audited edits may additionally
// set one of the manual statuses.
const (
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusPresent    = "present"
	StatusLate       = "late"
	StatusAbsent     = "absent"
	StatusHalfDay    = "half_day"
)

// Attendance is one row per (employee, work day). CheckOut and TotalHours
// stay null until the employee checks out. Rows are never hard-deleted.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	ID         int        `json:"id" bun:"id,pk,autoincrement"`
	EmployeeID int        `json:"employee_id" bun:"employee_id"`
	WorkDay    string     `json:"work_day" bun:"work_day"`
	CheckIn    *time.Time `json:"check_in" bun:"check_in"`
	CheckOut   *time.Time `json:"check_out" bun:"check_out"`
	TotalHours *float64   `json:"total_hours" bun:"total_hours"`
	Status     string     `json:"status" bun:"status"`
	Notes      *string    `json:"notes" bun:"notes"`
	CreatedAt  time.Time  `json:"created_at" bun:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at" bun:"updated_at"`
}
