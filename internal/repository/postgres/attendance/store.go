package attendance

import (
	"context"
	"database/sql"

	"github.com/darkside779/attendance/internal/entity"
	"github.com/darkside779/attendance/internal/service/ledger"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// InTx runs fn inside one database transaction. Together with the row lock
// taken by GetForUpdate this serializes concurrent transitions for the same
// employee-day; a second check-in either waits and then sees the committed
// row, or collides with the unique index on (employee_id, work_day).
func (r Repository) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return r.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(txStore{tx: tx})
	})
}

type txStore struct {
	tx bun.Tx
}

func (s txStore) GetForUpdate(ctx context.Context, employeeID int, workDay string) (*entity.Attendance, error) {
	var record entity.Attendance

	err := s.tx.NewSelect().
		Model(&record).
		Where("employee_id = ? AND work_day = ?", employeeID, workDay).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendance for update")
	}

	return &record, nil
}

func (s txStore) GetByID(ctx context.Context, id int) (*entity.Attendance, error) {
	var record entity.Attendance

	err := s.tx.NewSelect().
		Model(&record).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}

	return &record, nil
}

func (s txStore) Insert(ctx context.Context, record *entity.Attendance) error {
	_, err := s.tx.NewInsert().Model(record).Returning("id").Exec(ctx, &record.ID)
	return translateInsertError(err)
}

// sqlStateError is the surface pgdriver server errors expose; field 'C'
// carries the SQLSTATE code.
type sqlStateError interface {
	Field(field byte) string
}

const uniqueViolation = "23505"

// translateInsertError maps a unique-index collision on
// (employee_id, work_day) to the ledger's typed error. Two first check-ins
// racing for the same day both pass GetForUpdate (no row exists yet, so
// there is nothing to lock); the loser surfaces here.
func translateInsertError(err error) error {
	var pgErr sqlStateError
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return ledger.ErrAlreadyCheckedIn
	}
	return err
}

func (s txStore) Update(ctx context.Context, record *entity.Attendance) error {
	_, err := s.tx.NewUpdate().Model(record).WherePK().Exec(ctx)
	return err
}

func (s txStore) AppendModification(ctx context.Context, mod *entity.AttendanceModification) error {
	_, err := s.tx.NewInsert().Model(mod).Returning("id").Exec(ctx, &mod.ID)
	return err
}

func (r Repository) ListByDay(ctx context.Context, workDay string) ([]entity.Attendance, error) {
	var records []entity.Attendance

	err := r.NewSelect().
		Model(&records).
		Where("work_day = ?", workDay).
		Order("employee_id").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendance by day")
	}

	return records, nil
}

func (r Repository) CountActiveEmployees(ctx context.Context) (int, error) {
	count := 0

	err := r.QueryRowContext(ctx, "SELECT count(id) FROM employees WHERE deleted_at IS NULL AND is_active = true").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting active employees")
	}

	return count, nil
}
