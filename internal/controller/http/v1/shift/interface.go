package shift

import (
	"context"

	"github.com/darkside779/attendance/internal/repository/postgres/shift"
)

type Shift interface {
	GetList(ctx context.Context, filter shift.Filter) ([]shift.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (shift.GetDetailByIdResponse, error)
	Create(ctx context.Context, request shift.CreateRequest) (shift.CreateResponse, error)
	UpdateColumns(ctx context.Context, request shift.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
