// Package ledger owns the attendance state machine. Each (employee, work
// day) moves Absent -> CheckedIn -> CheckedOut and never back; every
// transition is validated and committed inside one store transaction so
// concurrent attempts for the same employee-day serialize.
package ledger

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/darkside779/attendance/internal/entity"

	"github.com/pkg/errors"
)

// Typed business-rule violations. These are operational situations, not
// system faults, and are never retried automatically.
var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("not checked in today")
	ErrInvalidOrdering  = errors.New("check-out time is before check-in time")
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrEmptyReason      = errors.New("modification reason is required")
	ErrInvalidField     = errors.New("field cannot be modified")
	ErrInvalidValue     = errors.New("invalid value for field")
)

// Tx is the transactional view of attendance storage. GetForUpdate must
// lock the row (or gap) for the employee-day until the transaction ends.
type Tx interface {
	GetForUpdate(ctx context.Context, employeeID int, workDay string) (*entity.Attendance, error)
	GetByID(ctx context.Context, id int) (*entity.Attendance, error)
	Insert(ctx context.Context, record *entity.Attendance) error
	Update(ctx context.Context, record *entity.Attendance) error
	AppendModification(ctx context.Context, mod *entity.AttendanceModification) error
}

// Store provides transactions plus the read paths the day summary needs.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	ListByDay(ctx context.Context, workDay string) ([]entity.Attendance, error)
	CountActiveEmployees(ctx context.Context) (int, error)
}

// Summary aggregates one day's records.
type Summary struct {
	TotalEmployees int `json:"total_employees"`
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	StillIn        int `json:"still_in"`
	CheckedOut     int `json:"checked_out"`
}

type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// WorkDay formats the calendar day a timestamp belongs to.
func WorkDay(ts time.Time) string {
	return ts.Format("2006-01-02")
}

// TotalHours is the elapsed working time in fractional hours, rounded to
// two decimals. Used both at check-out and when an audited edit moves a
// timestamp, so both paths derive identical values.
func TotalHours(checkIn, checkOut time.Time) float64 {
	hours := checkOut.Sub(checkIn).Hours()
	return math.Round(hours*100) / 100
}

// CheckIn records the first attendance event of the employee's day.
func (l *Ledger) CheckIn(ctx context.Context, employeeID int, ts time.Time) (entity.Attendance, error) {
	var record entity.Attendance

	err := l.store.InTx(ctx, func(tx Tx) error {
		existing, err := tx.GetForUpdate(ctx, employeeID, WorkDay(ts))
		if err != nil {
			return errors.Wrap(err, "loading attendance for check-in")
		}
		if existing != nil && existing.CheckIn != nil {
			return ErrAlreadyCheckedIn
		}

		checkIn := ts
		record = entity.Attendance{
			EmployeeID: employeeID,
			WorkDay:    WorkDay(ts),
			CheckIn:    &checkIn,
			Status:     entity.StatusCheckedIn,
			CreatedAt:  time.Now(),
		}

		return errors.Wrap(tx.Insert(ctx, &record), "inserting attendance")
	})
	if err != nil {
		return entity.Attendance{}, err
	}

	return record, nil
}

// CheckOut closes the employee's open record for the day and derives the
// total hours.
func (l *Ledger) CheckOut(ctx context.Context, employeeID int, ts time.Time) (entity.Attendance, error) {
	var record entity.Attendance

	err := l.store.InTx(ctx, func(tx Tx) error {
		existing, err := tx.GetForUpdate(ctx, employeeID, WorkDay(ts))
		if err != nil {
			return errors.Wrap(err, "loading attendance for check-out")
		}
		if existing == nil || existing.CheckIn == nil || existing.CheckOut != nil {
			return ErrNotCheckedIn
		}
		if ts.Before(*existing.CheckIn) {
			return ErrInvalidOrdering
		}

		checkOut := ts
		hours := TotalHours(*existing.CheckIn, checkOut)
		now := time.Now()

		existing.CheckOut = &checkOut
		existing.TotalHours = &hours
		existing.Status = entity.StatusCheckedOut
		existing.UpdatedAt = &now

		if err = tx.Update(ctx, existing); err != nil {
			return errors.Wrap(err, "updating attendance")
		}

		record = *existing
		return nil
	})
	if err != nil {
		return entity.Attendance{}, err
	}

	return record, nil
}

var modifiableFields = map[string]bool{
	"check_in":  true,
	"check_out": true,
	"status":    true,
	"notes":     true,
}

var allowedStatuses = map[string]bool{
	entity.StatusCheckedIn:  true,
	entity.StatusCheckedOut: true,
	entity.StatusPresent:    true,
	entity.StatusLate:       true,
	entity.StatusAbsent:     true,
	entity.StatusHalfDay:    true,
}

// ApplyModification performs an audited post-hoc edit: the field change and
// its audit entry commit in the same transaction, so there is never an edit
// without provenance. Hours are recomputed whenever a timestamp moves.
func (l *Ledger) ApplyModification(ctx context.Context, recordID int, field, newValue, reason string, actor int) (entity.AttendanceModification, error) {
	if strings.TrimSpace(reason) == "" {
		return entity.AttendanceModification{}, ErrEmptyReason
	}
	if !modifiableFields[field] {
		return entity.AttendanceModification{}, errors.Wrap(ErrInvalidField, field)
	}

	var mod entity.AttendanceModification

	err := l.store.InTx(ctx, func(tx Tx) error {
		record, err := tx.GetByID(ctx, recordID)
		if err != nil {
			return errors.Wrap(err, "loading attendance for modification")
		}
		if record == nil {
			return ErrRecordNotFound
		}

		oldValue := fieldValue(record, field)

		if err = applyField(record, field, newValue); err != nil {
			return err
		}

		if field == "check_in" || field == "check_out" {
			if record.CheckIn != nil && record.CheckOut != nil {
				if record.CheckOut.Before(*record.CheckIn) {
					return ErrInvalidOrdering
				}
				hours := TotalHours(*record.CheckIn, *record.CheckOut)
				record.TotalHours = &hours
			} else {
				record.TotalHours = nil
				record.Status = entity.StatusCheckedIn
			}
		}

		now := time.Now()
		record.UpdatedAt = &now

		if err = tx.Update(ctx, record); err != nil {
			return errors.Wrap(err, "updating attendance")
		}

		mod = entity.AttendanceModification{
			AttendanceID: recordID,
			FieldChanged: field,
			OldValue:     oldValue,
			NewValue:     strPtr(newValue),
			Reason:       reason,
			ModifiedBy:   actor,
			CreatedAt:    now,
		}

		return errors.Wrap(tx.AppendModification(ctx, &mod), "appending modification")
	})
	if err != nil {
		return entity.AttendanceModification{}, err
	}

	return mod, nil
}

// SummaryForDate derives the day's headline counts from its records.
func (l *Ledger) SummaryForDate(ctx context.Context, workDay string) (Summary, error) {
	records, err := l.store.ListByDay(ctx, workDay)
	if err != nil {
		return Summary{}, errors.Wrap(err, "listing attendance by day")
	}

	total, err := l.store.CountActiveEmployees(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "counting active employees")
	}

	summary := Summary{
		TotalEmployees: total,
		Present:        len(records),
	}
	for _, r := range records {
		if r.CheckOut != nil {
			summary.CheckedOut++
		} else {
			summary.StillIn++
		}
	}
	summary.Absent = total - summary.Present
	if summary.Absent < 0 {
		summary.Absent = 0
	}

	return summary, nil
}

// Timestamp formats accepted by audited edits; the first is what HTML
// datetime-local inputs produce.
var timestampFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseTimestamp(value string) (time.Time, error) {
	for _, format := range timestampFormats {
		if ts, err := time.Parse(format, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, errors.Wrap(ErrInvalidValue, value)
}

func fieldValue(record *entity.Attendance, field string) *string {
	switch field {
	case "check_in":
		if record.CheckIn == nil {
			return nil
		}
		return strPtr(record.CheckIn.Format("2006-01-02 15:04:05"))
	case "check_out":
		if record.CheckOut == nil {
			return nil
		}
		return strPtr(record.CheckOut.Format("2006-01-02 15:04:05"))
	case "status":
		return strPtr(record.Status)
	case "notes":
		return record.Notes
	}

	return nil
}

func applyField(record *entity.Attendance, field, newValue string) error {
	switch field {
	case "check_in":
		// A day cannot exist without its check-in; clearing it is refused.
		if newValue == "" {
			return errors.Wrap(ErrInvalidValue, "check_in cannot be cleared")
		}
		ts, err := parseTimestamp(newValue)
		if err != nil {
			return err
		}
		record.CheckIn = &ts
	case "check_out":
		if newValue == "" {
			record.CheckOut = nil
			return nil
		}
		ts, err := parseTimestamp(newValue)
		if err != nil {
			return err
		}
		record.CheckOut = &ts
	case "status":
		if !allowedStatuses[newValue] {
			return errors.Wrap(ErrInvalidValue, fmt.Sprintf("unknown status %s", strconv.Quote(newValue)))
		}
		record.Status = newValue
	case "notes":
		record.Notes = strPtr(newValue)
	}

	return nil
}

func strPtr(s string) *string {
	return &s
}
