package payroll

import (
	"context"

	"github.com/darkside779/attendance/internal/repository/postgres/payroll"
)

type Payroll interface {
	CreatePeriod(ctx context.Context, request payroll.CreatePeriodRequest) (payroll.CreatePeriodResponse, error)
	GetPeriodList(ctx context.Context, filter payroll.Filter) ([]payroll.PeriodListResponse, int, error)
	CalculatePeriod(ctx context.Context, periodID int) (payroll.CalculateResponse, error)
	GetRecords(ctx context.Context, periodID int) ([]payroll.RecordResponse, error)
	ApproveRecord(ctx context.Context, recordID int) error
	MarkPeriodPaid(ctx context.Context, periodID int) error
	DeletePeriod(ctx context.Context, id int) error
}
