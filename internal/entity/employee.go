package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	BasicEntity
	Code       *string    `json:"code" bun:"code"`
	FullName   *string    `json:"full_name" bun:"full_name"`
	Phone      *string    `json:"phone" bun:"phone"`
	Email      *string    `json:"email" bun:"email"`
	Department *string    `json:"department" bun:"department"`
	Position   *string    `json:"position" bun:"position"`
	HireDate   *time.Time `json:"hire_date" bun:"hire_date"`

	// HourlyRate is stored in cents to keep payroll arithmetic exact.
	HourlyRate *int  `json:"hourly_rate" bun:"hourly_rate"`
	IsActive   *bool `json:"is_active" bun:"is_active"`
}
