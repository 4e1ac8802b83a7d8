package entity

import (
	"encoding/json"

	"github.com/uptrace/bun"
)

// Shift is either a template (EmployeeID null) or an assignment of a
// template's hours to one employee.
type Shift struct {
	bun.BaseModel `bun:"table:shifts"`

	BasicEntity
	EmployeeID  *int            `json:"employee_id" bun:"employee_id"`
	ShiftName   *string         `json:"shift_name" bun:"shift_name"`
	StartTime   *string         `json:"start_time" bun:"start_time"`
	EndTime     *string         `json:"end_time" bun:"end_time"`
	DaysOfWeek  json.RawMessage `json:"days_of_week" bun:"days_of_week,type:jsonb"`
	Description *string         `json:"description" bun:"description"`
	IsActive    *bool           `json:"is_active" bun:"is_active"`
}
