// Package payroll derives pay records from the attendance ledger. Rates and
// amounts are integer cents; hours over eight in one day count as overtime
// at one and a half times the hourly rate.
package payroll

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/entity"
	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"
	"github.com/darkside779/attendance/internal/repository/postgres"

	"github.com/pkg/errors"
)

const dailyRegularHours = 8.0

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) CreatePeriod(ctx context.Context, request CreatePeriodRequest) (CreatePeriodResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return CreatePeriodResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Name", "StartDate", "EndDate"); err != nil {
		return CreatePeriodResponse{}, err
	}

	start, err := time.Parse("2006-01-02", *request.StartDate)
	if err != nil {
		return CreatePeriodResponse{}, web.NewRequestError(errors.New("start_date must be YYYY-MM-DD"), http.StatusBadRequest)
	}
	end, err := time.Parse("2006-01-02", *request.EndDate)
	if err != nil {
		return CreatePeriodResponse{}, web.NewRequestError(errors.New("end_date must be YYYY-MM-DD"), http.StatusBadRequest)
	}
	if end.Before(start) {
		return CreatePeriodResponse{}, web.NewRequestError(errors.New("end_date is before start_date"), http.StatusBadRequest)
	}

	var response CreatePeriodResponse
	response.Name = request.Name
	response.StartDate = request.StartDate
	response.EndDate = request.EndDate
	response.Status = entity.PayrollPeriodDraft
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreatePeriodResponse{}, web.NewRequestError(errors.Wrap(err, "creating payroll period"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) GetPeriodList(ctx context.Context, filter Filter) ([]PeriodListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				p.deleted_at IS NULL
			`

	if filter.Status != nil {
		whereQuery += fmt.Sprintf(" AND p.status = '%s'", *filter.Status)
	}
	orderQuery := "ORDER BY p.start_date desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			p.id,
			p.name,
			p.start_date,
			p.end_date,
			p.status,
			(SELECT count(pr.id) FROM payroll_records pr WHERE pr.period_id = p.id)
		FROM payroll_periods p
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting payroll periods"), http.StatusBadRequest)
	}

	var list []PeriodListResponse

	for rows.Next() {
		var detail PeriodListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Name,
			&detail.StartDate,
			&detail.EndDate,
			&detail.Status,
			&detail.Records); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning payroll periods"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(p.id)
		FROM payroll_periods p
		%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting period count"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning period count"), http.StatusBadRequest)
		}
	}

	return list, count, nil
}

// CalculatePeriod rebuilds the period's records from the ledger. Existing
// unapproved records are replaced so the calculation can be re-run after
// attendance corrections.
func (r Repository) CalculatePeriod(ctx context.Context, periodID int) (CalculateResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return CalculateResponse{}, err
	}

	var period entity.PayrollPeriod
	err = r.NewSelect().Model(&period).Where("id = ? AND deleted_at IS NULL", periodID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return CalculateResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return CalculateResponse{}, web.NewRequestError(errors.Wrap(err, "selecting payroll period"), http.StatusBadRequest)
	}
	if period.Status != nil && *period.Status == entity.PayrollPeriodPaid {
		return CalculateResponse{}, web.NewRequestError(errors.New("period is already paid"), http.StatusBadRequest)
	}

	query := fmt.Sprintf(`
		SELECT
			a.employee_id,
			e.hourly_rate,
			a.total_hours
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE e.deleted_at IS NULL
			AND e.hourly_rate IS NOT NULL
			AND a.total_hours IS NOT NULL
			AND a.work_day >= '%s' AND a.work_day <= '%s'
		ORDER BY a.employee_id
	`, *period.StartDate, *period.EndDate)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return CalculateResponse{}, web.NewRequestError(errors.Wrap(err, "selecting period attendance"), http.StatusBadRequest)
	}

	type accumulator struct {
		rate     int
		regular  float64
		overtime float64
		days     int
	}
	totals := map[int]*accumulator{}
	var order []int

	for rows.Next() {
		var (
			employeeID int
			rate       int
			hours      float64
		)
		if err = rows.Scan(&employeeID, &rate, &hours); err != nil {
			return CalculateResponse{}, web.NewRequestError(errors.Wrap(err, "scanning period attendance"), http.StatusBadRequest)
		}

		acc, ok := totals[employeeID]
		if !ok {
			acc = &accumulator{rate: rate}
			totals[employeeID] = acc
			order = append(order, employeeID)
		}

		regular := hours
		overtime := 0.0
		if hours > dailyRegularHours {
			regular = dailyRegularHours
			overtime = hours - dailyRegularHours
		}
		acc.regular += regular
		acc.overtime += overtime
		acc.days++
	}

	if _, err = r.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM payroll_records WHERE period_id = %d AND status != '%s'", periodID, entity.PayrollRecordApproved)); err != nil {
		return CalculateResponse{}, web.NewRequestError(errors.Wrap(err, "clearing draft records"), http.StatusBadRequest)
	}

	created := 0
	for _, employeeID := range order {
		acc := totals[employeeID]

		regularPay := int(math.Round(acc.regular * float64(acc.rate)))
		overtimePay := int(math.Round(acc.overtime * float64(acc.rate) * 1.5))

		record := entity.PayrollRecord{
			EmployeeID:    employeeID,
			PeriodID:      periodID,
			TotalHours:    round2(acc.regular + acc.overtime),
			RegularHours:  round2(acc.regular),
			OvertimeHours: round2(acc.overtime),
			DaysWorked:    acc.days,
			RegularPay:    regularPay,
			OvertimePay:   overtimePay,
			GrossPay:      regularPay + overtimePay,
			NetPay:        regularPay + overtimePay,
			Status:        entity.PayrollRecordCalculated,
			CreatedAt:     time.Now(),
		}

		_, err = r.NewInsert().Model(&record).On("CONFLICT (employee_id, period_id) DO NOTHING").Exec(ctx)
		if err != nil {
			return CalculateResponse{}, web.NewRequestError(errors.Wrap(err, "inserting payroll record"), http.StatusBadRequest)
		}
		created++
	}

	if _, err = r.NewUpdate().Table("payroll_periods").
		Where("id = ?", periodID).
		Set("status = ?", entity.PayrollPeriodCompleted).
		Exec(ctx); err != nil {
		return CalculateResponse{}, web.NewRequestError(errors.Wrap(err, "updating period status"), http.StatusBadRequest)
	}

	return CalculateResponse{PeriodID: periodID, RecordsCreated: created}, nil
}

func (r Repository) GetRecords(ctx context.Context, periodID int) ([]RecordResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			pr.id,
			pr.employee_id,
			e.code,
			e.full_name,
			pr.regular_hours,
			pr.overtime_hours,
			pr.days_worked,
			pr.regular_pay,
			pr.overtime_pay,
			pr.gross_pay,
			pr.status,
			pr.approved_by,
			u.full_name
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		LEFT JOIN users u ON u.id = pr.approved_by
		WHERE pr.period_id = %d
		ORDER BY e.full_name
	`, periodID)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting payroll records"), http.StatusBadRequest)
	}

	var list []RecordResponse

	for rows.Next() {
		var detail RecordResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.EmployeeID,
			&detail.Code,
			&detail.FullName,
			&detail.RegularHours,
			&detail.OvertimeHours,
			&detail.DaysWorked,
			&detail.RegularPay,
			&detail.OvertimePay,
			&detail.GrossPay,
			&detail.Status,
			&detail.ApprovedBy,
			&detail.Approver); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning payroll records"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	return list, nil
}

func (r Repository) ApproveRecord(ctx context.Context, recordID int) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return err
	}

	result, err := r.NewUpdate().Table("payroll_records").
		Where("id = ? AND status = ?", recordID, entity.PayrollRecordCalculated).
		Set("status = ?", entity.PayrollRecordApproved).
		Set("approved_by = ?", claims.UserId).
		Set("approved_at = ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "approving payroll record"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking affected rows"), http.StatusInternalServerError)
	}
	if affected == 0 {
		return web.NewRequestError(errors.New("record not found or already approved"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) MarkPeriodPaid(ctx context.Context, periodID int) error {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return err
	}

	pending := 0
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf("SELECT count(id) FROM payroll_records WHERE period_id = %d AND status != '%s'", periodID, entity.PayrollRecordApproved)).Scan(&pending); err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking pending records"), http.StatusBadRequest)
	}
	if pending > 0 {
		return web.NewRequestError(errors.New("period has unapproved records"), http.StatusBadRequest)
	}

	result, err := r.NewUpdate().Table("payroll_periods").
		Where("deleted_at IS NULL AND id = ? AND status = ?", periodID, entity.PayrollPeriodCompleted).
		Set("status = ?", entity.PayrollPeriodPaid).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "marking period paid"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking affected rows"), http.StatusInternalServerError)
	}
	if affected == 0 {
		return web.NewRequestError(errors.New("period not found or not completed"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) DeletePeriod(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "payroll_periods", id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
