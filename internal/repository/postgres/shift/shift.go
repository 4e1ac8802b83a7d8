package shift

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

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				s.deleted_at IS NULL
			`

	if filter.EmployeeID != nil {
		whereQuery += fmt.Sprintf(" AND s.employee_id = %d", *filter.EmployeeID)
	}
	if filter.IsActive != nil {
		whereQuery += fmt.Sprintf(" AND s.is_active = %t", *filter.IsActive)
	}
	orderQuery := "ORDER BY s.created_at desc"

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
			s.id,
			s.employee_id,
			e.full_name,
			s.shift_name,
			s.start_time,
			s.end_time,
			s.days_of_week,
			s.is_active
		FROM shifts s
		LEFT JOIN employees e ON e.id = s.employee_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting shifts"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.EmployeeID,
			&detail.Employee,
			&detail.ShiftName,
			&detail.StartTime,
			&detail.EndTime,
			&detail.DaysOfWeek,
			&detail.IsActive); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning shift list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(s.id)
		FROM shifts s
		%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting shift count"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning shift count"), http.StatusBadRequest)
		}
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			s.id,
			s.employee_id,
			e.full_name,
			s.shift_name,
			s.start_time,
			s.end_time,
			s.days_of_week,
			s.description,
			s.is_active
		FROM shifts s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.deleted_at IS NULL AND s.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.EmployeeID,
		&detail.Employee,
		&detail.ShiftName,
		&detail.StartTime,
		&detail.EndTime,
		&detail.DaysOfWeek,
		&detail.Description,
		&detail.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting shift detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "ShiftName", "StartTime", "EndTime"); err != nil {
		return CreateResponse{}, err
	}

	if _, err := time.Parse("15:04", *request.StartTime); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.New("start_time must be HH:MM"), http.StatusBadRequest)
	}
	if _, err := time.Parse("15:04", *request.EndTime); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.New("end_time must be HH:MM"), http.StatusBadRequest)
	}

	var response CreateResponse
	response.EmployeeID = request.EmployeeID
	response.ShiftName = request.ShiftName
	response.StartTime = request.StartTime
	response.EndTime = request.EndTime
	response.DaysOfWeek = request.DaysOfWeek
	response.Description = request.Description
	response.IsActive = true
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating shift"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("shifts").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.EmployeeID != nil {
		q.Set("employee_id = ?", request.EmployeeID)
	}
	if request.ShiftName != nil {
		q.Set("shift_name = ?", request.ShiftName)
	}
	if request.StartTime != nil {
		if _, err := time.Parse("15:04", *request.StartTime); err != nil {
			return web.NewRequestError(errors.New("start_time must be HH:MM"), http.StatusBadRequest)
		}
		q.Set("start_time = ?", request.StartTime)
	}
	if request.EndTime != nil {
		if _, err := time.Parse("15:04", *request.EndTime); err != nil {
			return web.NewRequestError(errors.New("end_time must be HH:MM"), http.StatusBadRequest)
		}
		q.Set("end_time = ?", request.EndTime)
	}
	if request.DaysOfWeek != nil {
		q.Set("days_of_week = ?", string(request.DaysOfWeek))
	}
	if request.Description != nil {
		q.Set("description = ?", request.Description)
	}
	if request.IsActive != nil {
		q.Set("is_active = ?", request.IsActive)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating shift"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "shifts", id)
}
