package employee

import (
	"context"

	"github.com/darkside779/attendance/internal/repository/postgres/employee"
	"github.com/darkside779/attendance/internal/repository/postgres/face"
)

type Employee interface {
	GetList(ctx context.Context, filter employee.Filter) ([]employee.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (employee.GetDetailByIdResponse, error)
	Create(ctx context.Context, request employee.CreateRequest) (employee.CreateResponse, error)
	UpdateColumns(ctx context.Context, request employee.UpdateRequest) error
	Delete(ctx context.Context, id int) error
	Badge(ctx context.Context, id int) ([]byte, error)
}

type Face interface {
	DescriptorsFor(ctx context.Context, employeeID int) ([]face.GetListResponse, error)
	RemoveAll(ctx context.Context, employeeID int) error
}
