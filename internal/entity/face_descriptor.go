package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// FaceDescriptor is one enrolled face sample. An employee may hold several
// (different capture angles); each descriptor belongs to exactly one
// employee. Raw images are never stored here, only the numeric vector.
type FaceDescriptor struct {
	bun.BaseModel `bun:"table:face_descriptors"`

	ID         int       `json:"id" bun:"id,pk,autoincrement"`
	EmployeeID int       `json:"employee_id" bun:"employee_id"`
	Descriptor []float64 `json:"descriptor" bun:"descriptor,type:jsonb"`
	Label      *string   `json:"label" bun:"label"`
	CreatedAt  time.Time `json:"created_at" bun:"created_at"`
	CreatedBy  *int      `json:"created_by" bun:"created_by"`
}
