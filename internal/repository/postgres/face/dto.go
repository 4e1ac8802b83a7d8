package face

import (
	"time"

	"github.com/uptrace/bun"
)

type EnrollRequest struct {
	EmployeeID *int      `json:"employee_id" form:"employee_id"`
	Descriptor []float64 `json:"descriptor"`
	Label      *string   `json:"label" form:"label"`
}

type EnrollResponse struct {
	bun.BaseModel `bun:"table:face_descriptors"`

	ID         int       `json:"id" bun:"-"`
	EmployeeID int       `json:"employee_id" bun:"employee_id"`
	Descriptor []float64 `json:"-" bun:"descriptor,type:jsonb"`
	Label      *string   `json:"label" bun:"label"`
	CreatedAt  time.Time `json:"created_at" bun:"created_at"`
	CreatedBy  int       `json:"-" bun:"created_by"`
}

type GetListResponse struct {
	ID        int       `json:"id"`
	Label     *string   `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type PendingEmployee struct {
	ID       int     `json:"id"`
	FullName *string `json:"full_name"`
}

type RegistrationStatusResponse struct {
	TotalEmployees int               `json:"total_employees"`
	Enrolled       int               `json:"enrolled"`
	Pending        []PendingEmployee `json:"pending"`
}
