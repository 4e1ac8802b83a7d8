package employee

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/entity"
	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"
	"github.com/darkside779/attendance/internal/repository/postgres"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByID serves the recognition flow, which runs without claims in the
// context, so the lookup is unauthenticated by design of the caller.
func (r Repository) GetByID(ctx context.Context, id int) (*entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, web.NewCodedError(postgres.ErrNotFound, http.StatusNotFound, "EmployeeNotFound")
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting employee")
	}

	return &detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := fmt.Sprintf(`
			WHERE
				e.deleted_at IS NULL
			`)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, " ", "", -1)
		search = strings.Replace(search, "'", "", -1)

		whereQuery += fmt.Sprintf(` AND
		(e.code ilike '%s' OR e.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.Department != nil {
		department := strings.Replace(*filter.Department, "'", "", -1)
		whereQuery += fmt.Sprintf(" AND e.department = '%s'", department)
	}
	if filter.IsActive != nil {
		whereQuery += fmt.Sprintf(" AND e.is_active = %t", *filter.IsActive)
	}
	orderQuery := "ORDER BY e.created_at desc"

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
			e.id,
			e.code,
			e.full_name,
			e.department,
			e.position,
			e.phone,
			e.email,
			e.is_active,
			(SELECT count(f.id) FROM face_descriptors f WHERE f.employee_id = e.id)
		FROM employees e
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting employees"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Code,
			&detail.FullName,
			&detail.Department,
			&detail.Position,
			&detail.Phone,
			&detail.Email,
			&detail.IsActive,
			&detail.FaceDescCount); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning employee list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(e.id)
		FROM employees e
		%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting employee count"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning employee count"), http.StatusBadRequest)
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
			e.id,
			e.code,
			e.full_name,
			e.department,
			e.position,
			e.phone,
			e.email,
			e.hire_date,
			e.hourly_rate,
			e.is_active,
			(SELECT count(f.id) FROM face_descriptors f WHERE f.employee_id = e.id)
		FROM employees e
		WHERE e.deleted_at IS NULL AND e.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Code,
		&detail.FullName,
		&detail.Department,
		&detail.Position,
		&detail.Phone,
		&detail.Email,
		&detail.HireDate,
		&detail.HourlyRate,
		&detail.IsActive,
		&detail.FaceDescCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting employee detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Code", "FullName"); err != nil {
		return CreateResponse{}, err
	}

	codeStatus := true
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
							CASE WHEN
							(SELECT id FROM employees WHERE code = '%s' AND deleted_at IS NULL) IS NOT NULL
							THEN true ELSE false END`, *request.Code)).Scan(&codeStatus); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "code check"), http.StatusInternalServerError)
	}
	if codeStatus {
		return CreateResponse{}, web.NewRequestError(errors.New("employee code is used"), http.StatusBadRequest)
	}

	var response CreateResponse
	response.Code = request.Code
	response.FullName = request.FullName
	response.Phone = request.Phone
	response.Email = request.Email
	response.Department = request.Department
	response.Position = request.Position
	response.HireDate = request.HireDate
	response.HourlyRate = request.HourlyRate
	response.IsActive = true
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating employee"), http.StatusBadRequest)
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

	q := r.NewUpdate().Table("employees").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Code != nil {
		codeStatus := true
		if err := r.QueryRowContext(ctx, fmt.Sprintf("SELECT CASE WHEN (SELECT id FROM employees WHERE code = '%s' AND deleted_at IS NULL AND id != %d) IS NOT NULL THEN true ELSE false END", *request.Code, request.ID)).Scan(&codeStatus); err != nil {
			return web.NewRequestError(errors.Wrap(err, "code check"), http.StatusInternalServerError)
		}
		if codeStatus {
			return web.NewRequestError(errors.New("employee code is used"), http.StatusBadRequest)
		}
		q.Set("code = ?", request.Code)
	}

	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}
	if request.Phone != nil {
		q.Set("phone = ?", request.Phone)
	}
	if request.Email != nil {
		q.Set("email = ?", request.Email)
	}
	if request.Department != nil {
		q.Set("department = ?", request.Department)
	}
	if request.Position != nil {
		q.Set("position = ?", request.Position)
	}
	if request.HireDate != nil {
		q.Set("hire_date = ?", request.HireDate)
	}
	if request.HourlyRate != nil {
		q.Set("hourly_rate = ?", request.HourlyRate)
	}
	if request.IsActive != nil {
		q.Set("is_active = ?", request.IsActive)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating employee"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "employees", id)
}

// Badge renders a PNG QR code carrying the employee code, used for the
// printable badge.
func (r Repository) Badge(ctx context.Context, id int) ([]byte, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, err
	}

	var code string
	err = r.QueryRowContext(ctx, fmt.Sprintf("SELECT code FROM employees WHERE deleted_at IS NULL AND id = %d", id)).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, web.NewCodedError(postgres.ErrNotFound, http.StatusNotFound, "EmployeeNotFound")
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting employee code"), http.StatusBadRequest)
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "encoding badge"), http.StatusInternalServerError)
	}

	return png, nil
}
