package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// AttendanceModification is an append-only audit entry: one row per accepted
// edit of a committed attendance record. Rows are never updated or deleted.
type AttendanceModification struct {
	bun.BaseModel `bun:"table:attendance_modifications"`

	ID           int       `json:"id" bun:"id,pk,autoincrement"`
	AttendanceID int       `json:"attendance_id" bun:"attendance_id"`
	FieldChanged string    `json:"field_changed" bun:"field_changed"`
	OldValue     *string   `json:"old_value" bun:"old_value"`
	NewValue     *string   `json:"new_value" bun:"new_value"`
	Reason       string    `json:"reason" bun:"reason"`
	ModifiedBy   int       `json:"modified_by" bun:"modified_by"`
	CreatedAt    time.Time `json:"created_at" bun:"created_at"`
}
