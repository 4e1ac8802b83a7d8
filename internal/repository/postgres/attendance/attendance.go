package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"
	"github.com/darkside779/attendance/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				e.deleted_at IS NULL
			`

	if filter.EmployeeID != nil {
		whereQuery += fmt.Sprintf(" AND a.employee_id = %d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		status := sanitize(*filter.Status)
		whereQuery += fmt.Sprintf(" AND a.status = '%s'", status)
	}
	if filter.DateFrom != nil {
		if _, err := time.Parse("2006-01-02", *filter.DateFrom); err != nil {
			return nil, 0, web.NewRequestError(errors.New("date_from must be YYYY-MM-DD"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day >= '%s'", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		if _, err := time.Parse("2006-01-02", *filter.DateTo); err != nil {
			return nil, 0, web.NewRequestError(errors.New("date_to must be YYYY-MM-DD"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day <= '%s'", *filter.DateTo)
	}
	orderQuery := "ORDER BY a.work_day desc, a.check_in desc"

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
			a.id,
			a.employee_id,
			e.code,
			e.full_name,
			e.department,
			a.work_day,
			a.check_in,
			a.check_out,
			a.total_hours,
			a.status
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.EmployeeID,
			&detail.Code,
			&detail.FullName,
			&detail.Department,
			&detail.WorkDay,
			&detail.CheckIn,
			&detail.CheckOut,
			&detail.TotalHours,
			&detail.Status); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance count"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance count"), http.StatusBadRequest)
		}
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.employee_id,
			e.code,
			e.full_name,
			e.department,
			a.work_day,
			a.check_in,
			a.check_out,
			a.total_hours,
			a.status,
			a.notes
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.EmployeeID,
		&detail.Code,
		&detail.FullName,
		&detail.Department,
		&detail.WorkDay,
		&detail.CheckIn,
		&detail.CheckOut,
		&detail.TotalHours,
		&detail.Status,
		&detail.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance detail"), http.StatusBadRequest)
	}

	return detail, nil
}

// ModificationHistory lists the audit trail of one attendance record,
// oldest first.
func (r Repository) ModificationHistory(ctx context.Context, attendanceID int) ([]ModificationResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			m.id,
			m.attendance_id,
			m.field_changed,
			m.old_value,
			m.new_value,
			m.reason,
			m.modified_by,
			u.full_name,
			m.created_at
		FROM attendance_modifications m
		LEFT JOIN users u ON u.id = m.modified_by
		WHERE m.attendance_id = %d
		ORDER BY m.created_at
	`, attendanceID)

	return r.scanModifications(ctx, query)
}

// AllModifications lists every audit entry in the window, newest first.
func (r Repository) AllModifications(ctx context.Context, dateFrom, dateTo *string) ([]ModificationResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, err
	}

	whereQuery := "WHERE true"
	if dateFrom != nil {
		if _, err := time.Parse("2006-01-02", *dateFrom); err != nil {
			return nil, web.NewRequestError(errors.New("date_from must be YYYY-MM-DD"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND m.created_at >= '%s'", *dateFrom)
	}
	if dateTo != nil {
		if _, err := time.Parse("2006-01-02", *dateTo); err != nil {
			return nil, web.NewRequestError(errors.New("date_to must be YYYY-MM-DD"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND m.created_at < '%s'::date + 1", *dateTo)
	}

	query := fmt.Sprintf(`
		SELECT
			m.id,
			m.attendance_id,
			m.field_changed,
			m.old_value,
			m.new_value,
			m.reason,
			m.modified_by,
			u.full_name,
			m.created_at
		FROM attendance_modifications m
		LEFT JOIN users u ON u.id = m.modified_by
		%s
		ORDER BY m.created_at desc
	`, whereQuery)

	return r.scanModifications(ctx, query)
}

func (r Repository) scanModifications(ctx context.Context, query string) ([]ModificationResponse, error) {
	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting modifications"), http.StatusBadRequest)
	}

	var list []ModificationResponse

	for rows.Next() {
		var detail ModificationResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.AttendanceID,
			&detail.FieldChanged,
			&detail.OldValue,
			&detail.NewValue,
			&detail.Reason,
			&detail.ModifiedBy,
			&detail.Modifier,
			&detail.CreatedAt); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning modifications"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	return list, nil
}

func (r Repository) GetStatistics(ctx context.Context) (GetStatisticResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return GetStatisticResponse{}, err
	}

	var response GetStatisticResponse

	query := `
	SELECT
		(SELECT COUNT(id) FROM employees WHERE deleted_at IS NULL AND is_active = true) AS total_employees,
		(SELECT COUNT(id) FROM attendance WHERE work_day = CURRENT_DATE) AS present,
		(SELECT COUNT(id) FROM attendance WHERE work_day = CURRENT_DATE AND check_out IS NULL) AS still_in,
		(SELECT COUNT(id) FROM attendance WHERE work_day = CURRENT_DATE AND check_out IS NOT NULL) AS checked_out
	`

	err = r.QueryRowContext(ctx, query).Scan(
		&response.TotalEmployees,
		&response.Present,
		&response.StillIn,
		&response.CheckedOut,
	)
	if err != nil {
		return GetStatisticResponse{}, web.NewRequestError(errors.Wrap(err, "fetching statistics"), http.StatusBadRequest)
	}

	absent := 0
	if response.TotalEmployees != nil && response.Present != nil {
		absent = *response.TotalEmployees - *response.Present
		if absent < 0 {
			absent = 0
		}
	}
	response.Absent = &absent

	return response, nil
}

func (r Repository) GetPieChartStatistic(ctx context.Context) (PieChartResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return PieChartResponse{}, err
	}

	query := `
    WITH today_attendance AS (
        SELECT
            (SELECT COUNT(a.id) FROM attendance a WHERE a.work_day = CURRENT_DATE) AS present_count,
            (SELECT COUNT(e.id) FROM employees e WHERE e.deleted_at IS NULL AND e.is_active = true) AS total_count
    )
    SELECT
        COALESCE(ROUND(100.0 * present_count / GREATEST(1, total_count), 2), 0) AS present_percentage,
        COALESCE(ROUND(100.0 * GREATEST(0, total_count - present_count) / GREATEST(1, total_count), 2), 0) AS absent_percentage
    FROM today_attendance
	`

	var presentPercentage, absentPercentage float64
	if err := r.QueryRowContext(ctx, query).Scan(&presentPercentage, &absentPercentage); err != nil {
		return PieChartResponse{}, web.NewRequestError(errors.Wrap(err, "fetching pie chart data"), http.StatusBadRequest)
	}

	var detail PieChartResponse
	detail.Present = Int(int(presentPercentage))
	detail.Absent = Int(int(absentPercentage))

	return detail, nil
}

func Int(i int) *int {
	return &i
}

func (r Repository) GetBarChartStatistic(ctx context.Context) ([]BarChartResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return nil, err
	}

	query := `
    WITH today_attendance AS (
        SELECT
            e.department,
            COUNT(a.id) AS present_count,
            COUNT(e.id) AS total_count
        FROM employees e
        LEFT JOIN attendance a ON a.employee_id = e.id AND a.work_day = CURRENT_DATE
        WHERE e.deleted_at IS NULL AND e.is_active = true
        GROUP BY e.department
    )
    SELECT
        department,
        COALESCE(ROUND(100.0 * present_count / GREATEST(1, total_count), 2), 0) AS percentage
    FROM today_attendance
	`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "fetching bar chart data"), http.StatusBadRequest)
	}
	defer rows.Close()

	var results []BarChartResponse

	for rows.Next() {
		var result BarChartResponse
		if err := rows.Scan(&result.Department, &result.Percentage); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning bar chart data"), http.StatusBadRequest)
		}
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading bar chart data"), http.StatusBadRequest)
	}

	return results, nil
}

func (r Repository) GetGraphStatistic(ctx context.Context, filter GraphRequest) ([]GraphResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return nil, err
	}

	var startDay, endDay int
	switch filter.Interval {
	case 0:
		startDay, endDay = 1, 10
	case 1:
		startDay, endDay = 11, 20
	case 2:
		startDay, endDay = 21, 31
	default:
		return nil, web.NewRequestError(errors.New("invalid interval"), http.StatusBadRequest)
	}

	startDate := time.Date(filter.Month.Year(), filter.Month.Month(), startDay, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	endDate := time.Date(filter.Month.Year(), filter.Month.Month(), endDay, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	query := `
	WITH window_attendance AS (
		SELECT
			a.work_day,
			COUNT(a.id) AS present_count,
			(SELECT COUNT(e.id) FROM employees e WHERE e.deleted_at IS NULL AND e.is_active = true) AS total_count
		FROM attendance a
		WHERE a.work_day BETWEEN $1 AND $2
		GROUP BY a.work_day
	)
	SELECT
		work_day,
		COALESCE(ROUND(100.0 * present_count / GREATEST(1, total_count), 2), 0) AS percentage
	FROM window_attendance
	ORDER BY work_day
	`

	stmt, err := r.Prepare(query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "preparing graph query"), http.StatusInternalServerError)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, startDate, endDate)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting graph data"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GraphResponse

	for rows.Next() {
		var detail GraphResponse
		var workDayString string

		if err = rows.Scan(&workDayString, &detail.Percentage); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning graph data"), http.StatusBadRequest)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "parsing work_day"), http.StatusBadRequest)
		}
		detail.WorkDay = &workDay

		list = append(list, detail)
	}

	return list, nil
}

func sanitize(value string) string {
	out := make([]rune, 0, len(value))
	for _, r := range value {
		if r == '\'' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
