package attendance

import (
	"context"

	"github.com/darkside779/attendance/internal/entity"
	"github.com/darkside779/attendance/internal/repository/postgres/attendance"
	"github.com/darkside779/attendance/internal/service/ledger"
)

type Attendance interface {
	GetList(ctx context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (attendance.GetDetailByIdResponse, error)
	ModificationHistory(ctx context.Context, attendanceID int) ([]attendance.ModificationResponse, error)
	AllModifications(ctx context.Context, dateFrom, dateTo *string) ([]attendance.ModificationResponse, error)
	GetStatistics(ctx context.Context) (attendance.GetStatisticResponse, error)
	GetPieChartStatistic(ctx context.Context) (attendance.PieChartResponse, error)
	GetBarChartStatistic(ctx context.Context) ([]attendance.BarChartResponse, error)
	GetGraphStatistic(ctx context.Context, filter attendance.GraphRequest) ([]attendance.GraphResponse, error)
}

type Ledger interface {
	ApplyModification(ctx context.Context, recordID int, field, newValue, reason string, actor int) (entity.AttendanceModification, error)
	SummaryForDate(ctx context.Context, workDay string) (ledger.Summary, error)
}
