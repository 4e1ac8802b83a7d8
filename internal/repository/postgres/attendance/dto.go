package attendance

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	EmployeeID *int
	Status     *string
	DateFrom   *string
	DateTo     *string
}

type GetListResponse struct {
	ID         int        `json:"id"`
	EmployeeID int        `json:"employee_id"`
	Code       *string    `json:"code"`
	FullName   *string    `json:"full_name"`
	Department *string    `json:"department"`
	WorkDay    string     `json:"work_day"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	TotalHours *float64   `json:"total_hours"`
	Status     string     `json:"status"`
}

type GetDetailByIdResponse struct {
	ID         int        `json:"id"`
	EmployeeID int        `json:"employee_id"`
	Code       *string    `json:"code"`
	FullName   *string    `json:"full_name"`
	Department *string    `json:"department"`
	WorkDay    string     `json:"work_day"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	TotalHours *float64   `json:"total_hours"`
	Status     string     `json:"status"`
	Notes      *string    `json:"notes"`
}

type ModifyRequest struct {
	ID       int     `json:"id" form:"id"`
	Field    *string `json:"field" form:"field"`
	NewValue *string `json:"new_value" form:"new_value"`
	Reason   *string `json:"reason" form:"reason"`
}

type ModificationResponse struct {
	ID           int       `json:"id"`
	AttendanceID int       `json:"attendance_id"`
	FieldChanged string    `json:"field_changed"`
	OldValue     *string   `json:"old_value"`
	NewValue     *string   `json:"new_value"`
	Reason       string    `json:"reason"`
	ModifiedBy   int       `json:"modified_by"`
	Modifier     *string   `json:"modifier"`
	CreatedAt    time.Time `json:"created_at"`
}

type GetStatisticResponse struct {
	TotalEmployees *int `json:"total_employees"`
	Present        *int `json:"present"`
	Absent         *int `json:"absent"`
	StillIn        *int `json:"still_in"`
	CheckedOut     *int `json:"checked_out"`
}

type PieChartResponse struct {
	Present *int `json:"present"`
	Absent  *int `json:"absent"`
}

type BarChartResponse struct {
	Department *string  `json:"department"`
	Percentage *float64 `json:"percentage"`
}

type GraphRequest struct {
	Month    time.Time
	Interval int
}

type GraphResponse struct {
	WorkDay    *date.Date `json:"work_day"`
	Percentage *float64   `json:"percentage"`
}
