package employee

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	Search     *string
	Department *string
	IsActive   *bool
}

type GetListResponse struct {
	ID            int     `json:"id"`
	Code          *string `json:"code"`
	FullName      *string `json:"full_name"`
	Department    *string `json:"department"`
	Position      *string `json:"position"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	IsActive      *bool   `json:"is_active"`
	FaceDescCount int     `json:"face_descriptor_count"`
}

type GetDetailByIdResponse struct {
	ID            int        `json:"id"`
	Code          *string    `json:"code"`
	FullName      *string    `json:"full_name"`
	Department    *string    `json:"department"`
	Position      *string    `json:"position"`
	Phone         *string    `json:"phone"`
	Email         *string    `json:"email"`
	HireDate      *time.Time `json:"hire_date"`
	HourlyRate    *int       `json:"hourly_rate"`
	IsActive      *bool      `json:"is_active"`
	FaceDescCount int        `json:"face_descriptor_count"`
}

type CreateRequest struct {
	Code       *string    `json:"code" form:"code"`
	FullName   *string    `json:"full_name" form:"full_name"`
	Phone      *string    `json:"phone" form:"phone"`
	Email      *string    `json:"email" form:"email"`
	Department *string    `json:"department" form:"department"`
	Position   *string    `json:"position" form:"position"`
	HireDate   *time.Time `json:"hire_date" form:"hire_date"`
	HourlyRate *int       `json:"hourly_rate" form:"hourly_rate"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:employees"`

	ID         int        `json:"id" bun:"-"`
	Code       *string    `json:"code" bun:"code"`
	FullName   *string    `json:"full_name" bun:"full_name"`
	Phone      *string    `json:"phone" bun:"phone"`
	Email      *string    `json:"email" bun:"email"`
	Department *string    `json:"department" bun:"department"`
	Position   *string    `json:"position" bun:"position"`
	HireDate   *time.Time `json:"hire_date" bun:"hire_date"`
	HourlyRate *int       `json:"hourly_rate" bun:"hourly_rate"`
	IsActive   bool       `json:"is_active" bun:"is_active"`
	CreatedAt  time.Time  `json:"-" bun:"created_at"`
	CreatedBy  int        `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID         int        `json:"id" form:"id"`
	Code       *string    `json:"code" form:"code"`
	FullName   *string    `json:"full_name" form:"full_name"`
	Phone      *string    `json:"phone" form:"phone"`
	Email      *string    `json:"email" form:"email"`
	Department *string    `json:"department" form:"department"`
	Position   *string    `json:"position" form:"position"`
	HireDate   *time.Time `json:"hire_date" form:"hire_date"`
	HourlyRate *int       `json:"hourly_rate" form:"hourly_rate"`
	IsActive   *bool      `json:"is_active" form:"is_active"`
}
