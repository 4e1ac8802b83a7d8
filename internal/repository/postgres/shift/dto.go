package shift

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	EmployeeID *int
	IsActive   *bool
}

type GetListResponse struct {
	ID         int              `json:"id"`
	EmployeeID *int             `json:"employee_id"`
	Employee   *string          `json:"employee"`
	ShiftName  *string          `json:"shift_name"`
	StartTime  *string          `json:"start_time"`
	EndTime    *string          `json:"end_time"`
	DaysOfWeek *json.RawMessage `json:"days_of_week"`
	IsActive   *bool            `json:"is_active"`
}

type GetDetailByIdResponse struct {
	ID          int              `json:"id"`
	EmployeeID  *int             `json:"employee_id"`
	Employee    *string          `json:"employee"`
	ShiftName   *string          `json:"shift_name"`
	StartTime   *string          `json:"start_time"`
	EndTime     *string          `json:"end_time"`
	DaysOfWeek  *json.RawMessage `json:"days_of_week"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
}

type CreateRequest struct {
	EmployeeID  *int            `json:"employee_id" form:"employee_id"`
	ShiftName   *string         `json:"shift_name" form:"shift_name"`
	StartTime   *string         `json:"start_time" form:"start_time"`
	EndTime     *string         `json:"end_time" form:"end_time"`
	DaysOfWeek  json.RawMessage `json:"days_of_week"`
	Description *string         `json:"description" form:"description"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:shifts"`

	ID          int             `json:"id" bun:"-"`
	EmployeeID  *int            `json:"employee_id" bun:"employee_id"`
	ShiftName   *string         `json:"shift_name" bun:"shift_name"`
	StartTime   *string         `json:"start_time" bun:"start_time"`
	EndTime     *string         `json:"end_time" bun:"end_time"`
	DaysOfWeek  json.RawMessage `json:"days_of_week" bun:"days_of_week,type:jsonb"`
	Description *string         `json:"description" bun:"description"`
	IsActive    bool            `json:"is_active" bun:"is_active"`
	CreatedAt   time.Time       `json:"-" bun:"created_at"`
	CreatedBy   int             `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID          int             `json:"id" form:"id"`
	EmployeeID  *int            `json:"employee_id" form:"employee_id"`
	ShiftName   *string         `json:"shift_name" form:"shift_name"`
	StartTime   *string         `json:"start_time" form:"start_time"`
	EndTime     *string         `json:"end_time" form:"end_time"`
	DaysOfWeek  json.RawMessage `json:"days_of_week"`
	Description *string         `json:"description" form:"description"`
	IsActive    *bool           `json:"is_active" form:"is_active"`
}
