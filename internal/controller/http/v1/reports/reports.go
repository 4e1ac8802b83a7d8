// Package reports serves attendance exports for a date window.
package reports

import (
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/repository/postgres/attendance"
	"github.com/darkside779/attendance/internal/service/report"
)

type Controller struct {
	attendance Attendance
}

func NewController(att Attendance) *Controller {
	return &Controller{attendance: att}
}

func (uc Controller) AttendanceExcel(c *web.Context) error {
	rows, title, err := uc.load(c)
	if err != nil {
		return c.RespondError(err)
	}

	data, err := report.AttendanceExcel(rows, title)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	return nil
}

func (uc Controller) AttendancePDF(c *web.Context) error {
	rows, title, err := uc.load(c)
	if err != nil {
		return c.RespondError(err)
	}

	data, err := report.AttendancePDF(rows, title)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", `attachment; filename="attendance.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)

	return nil
}

func (uc Controller) load(c *web.Context) ([]report.AttendanceRow, string, error) {
	var filter attendance.Filter

	if employeeId, ok := c.GetQueryFunc(reflect.Int, "employee_id").(*int); ok {
		filter.EmployeeID = employeeId
	}
	if dateFrom, ok := c.GetQueryFunc(reflect.String, "date_from").(*string); ok {
		filter.DateFrom = dateFrom
	}
	if dateTo, ok := c.GetQueryFunc(reflect.String, "date_to").(*string); ok {
		filter.DateTo = dateTo
	}
	if err := c.ValidQuery(); err != nil {
		return nil, "", err
	}

	list, _, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return nil, "", err
	}

	rows := make([]report.AttendanceRow, 0, len(list))
	for _, r := range list {
		row := report.AttendanceRow{
			WorkDay:    r.WorkDay,
			CheckIn:    r.CheckIn,
			CheckOut:   r.CheckOut,
			TotalHours: r.TotalHours,
			Status:     r.Status,
		}
		if r.Code != nil {
			row.Code = *r.Code
		}
		if r.FullName != nil {
			row.FullName = *r.FullName
		}
		if r.Department != nil {
			row.Department = *r.Department
		}
		rows = append(rows, row)
	}

	title := "Attendance report"
	if filter.DateFrom != nil || filter.DateTo != nil {
		from, to := "...", time.Now().Format("2006-01-02")
		if filter.DateFrom != nil {
			from = *filter.DateFrom
		}
		if filter.DateTo != nil {
			to = *filter.DateTo
		}
		title = fmt.Sprintf("Attendance report %s - %s", from, to)
	}

	return rows, title, nil
}
