// Package face stores enrollment descriptors and serves the matcher's
// candidate pool. The pool is cached in redis because recognition reads it
// on every camera frame while enrollment writes are rare.
package face

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"
	"github.com/darkside779/attendance/internal/repository/postgres"
	"github.com/darkside779/attendance/internal/service/matcher"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	poolCacheKey = "face:descriptor_pool"
	poolCacheTTL = time.Hour
)

type Repository struct {
	*postgresql.Database
	cache *redis.Client
}

func NewRepository(database *postgresql.Database, cache *redis.Client) *Repository {
	return &Repository{Database: database, cache: cache}
}

func (r Repository) Enroll(ctx context.Context, request EnrollRequest) (EnrollResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return EnrollResponse{}, err
	}

	if err := r.ValidateStruct(&request, "EmployeeID"); err != nil {
		return EnrollResponse{}, err
	}
	if len(request.Descriptor) == 0 {
		return EnrollResponse{}, web.NewRequestError(errors.New("descriptor is empty"), http.StatusBadRequest)
	}

	employeeStatus := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
							CASE WHEN
							(SELECT id FROM employees WHERE id = %d AND deleted_at IS NULL) IS NOT NULL
							THEN true ELSE false END`, *request.EmployeeID)).Scan(&employeeStatus); err != nil {
		return EnrollResponse{}, web.NewRequestError(errors.Wrap(err, "employee check"), http.StatusInternalServerError)
	}
	if !employeeStatus {
		return EnrollResponse{}, web.NewCodedError(postgres.ErrNotFound, http.StatusNotFound, "EmployeeNotFound")
	}

	var response EnrollResponse
	response.EmployeeID = *request.EmployeeID
	response.Descriptor = request.Descriptor
	response.Label = request.Label
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return EnrollResponse{}, web.NewRequestError(errors.Wrap(err, "enrolling descriptor"), http.StatusBadRequest)
	}

	r.invalidatePool(ctx)

	return response, nil
}

func (r Repository) DescriptorsFor(ctx context.Context, employeeID int) ([]GetListResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			f.id,
			f.label,
			f.created_at
		FROM face_descriptors f
		WHERE f.employee_id = %d
		ORDER BY f.created_at
	`, employeeID)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting descriptors"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(&detail.ID, &detail.Label, &detail.CreatedAt); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning descriptor list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	return list, nil
}

// AllDescriptors loads the full candidate pool for active employees. The
// redis copy is authoritative until an enrollment write invalidates it.
func (r Repository) AllDescriptors(ctx context.Context) ([]matcher.Candidate, error) {
	if cached, err := r.cache.Get(ctx, poolCacheKey).Bytes(); err == nil {
		var pool []matcher.Candidate
		if err = json.Unmarshal(cached, &pool); err == nil {
			return pool, nil
		}
	}

	query := `
		SELECT
			f.employee_id,
			f.descriptor
		FROM face_descriptors f
		JOIN employees e ON e.id = f.employee_id
		WHERE e.deleted_at IS NULL AND e.is_active = true
		ORDER BY f.employee_id, f.id
	`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "selecting descriptor pool")
	}

	var pool []matcher.Candidate

	for rows.Next() {
		var (
			employeeID int
			raw        []byte
		)
		if err = rows.Scan(&employeeID, &raw); err != nil {
			return nil, errors.Wrap(err, "scanning descriptor pool")
		}

		var descriptor matcher.Descriptor
		if err = json.Unmarshal(raw, &descriptor); err != nil {
			return nil, errors.Wrap(err, "decoding descriptor")
		}

		pool = append(pool, matcher.Candidate{EmployeeID: employeeID, Descriptor: descriptor})
	}

	if encoded, err := json.Marshal(pool); err == nil {
		r.cache.Set(ctx, poolCacheKey, encoded, poolCacheTTL)
	}

	return pool, nil
}

// RemoveAll deletes every descriptor of the employee. Removing descriptors
// for an employee who has none is not an error.
func (r Repository) RemoveAll(ctx context.Context, employeeID int) error {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	employeeStatus := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
							CASE WHEN
							(SELECT id FROM employees WHERE id = %d AND deleted_at IS NULL) IS NOT NULL
							THEN true ELSE false END`, employeeID)).Scan(&employeeStatus); err != nil {
		return web.NewRequestError(errors.Wrap(err, "employee check"), http.StatusInternalServerError)
	}
	if !employeeStatus {
		return web.NewCodedError(postgres.ErrNotFound, http.StatusNotFound, "EmployeeNotFound")
	}

	_, err = r.ExecContext(ctx, fmt.Sprintf("DELETE FROM face_descriptors WHERE employee_id = %d", employeeID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return web.NewRequestError(errors.Wrap(err, "deleting descriptors"), http.StatusBadRequest)
	}

	r.invalidatePool(ctx)

	return nil
}

// RegistrationStatus reports how far face enrollment has progressed across
// active employees, listing the ones still missing a descriptor.
func (r Repository) RegistrationStatus(ctx context.Context) (RegistrationStatusResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard)
	if err != nil {
		return RegistrationStatusResponse{}, err
	}

	var response RegistrationStatusResponse

	countQuery := `
		SELECT
			count(id),
			count(id) FILTER (WHERE EXISTS (SELECT 1 FROM face_descriptors f WHERE f.employee_id = employees.id))
		FROM employees
		WHERE deleted_at IS NULL AND is_active = true
	`
	if err = r.QueryRowContext(ctx, countQuery).Scan(&response.TotalEmployees, &response.Enrolled); err != nil {
		return RegistrationStatusResponse{}, web.NewRequestError(errors.Wrap(err, "counting enrollments"), http.StatusInternalServerError)
	}

	pendingQuery := `
		SELECT e.id, e.full_name
		FROM employees e
		WHERE e.deleted_at IS NULL AND e.is_active = true
		  AND NOT EXISTS (SELECT 1 FROM face_descriptors f WHERE f.employee_id = e.id)
		ORDER BY e.id
	`
	rows, err := r.QueryContext(ctx, pendingQuery)
	if err != nil {
		return RegistrationStatusResponse{}, web.NewRequestError(errors.Wrap(err, "selecting pending employees"), http.StatusInternalServerError)
	}

	for rows.Next() {
		var pending PendingEmployee
		if err = rows.Scan(&pending.ID, &pending.FullName); err != nil {
			return RegistrationStatusResponse{}, web.NewRequestError(errors.Wrap(err, "scanning pending employee"), http.StatusInternalServerError)
		}
		response.Pending = append(response.Pending, pending)
	}

	return response, nil
}

func (r Repository) invalidatePool(ctx context.Context) {
	r.cache.Del(ctx, poolCacheKey)
}
