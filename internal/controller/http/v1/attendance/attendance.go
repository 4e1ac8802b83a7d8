package attendance

import (
	"net/http"
	"reflect"
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/repository/postgres/attendance"
	"github.com/darkside779/attendance/internal/service/ledger"

	"github.com/pkg/errors"
)

type Controller struct {
	attendance Attendance
	ledger     Ledger
}

func NewController(att Attendance, l Ledger) *Controller {
	return &Controller{attendance: att, ledger: l}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter attendance.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if employeeId, ok := c.GetQueryFunc(reflect.Int, "employee_id").(*int); ok {
		filter.EmployeeID = employeeId
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if dateFrom, ok := c.GetQueryFunc(reflect.String, "date_from").(*string); ok {
		filter.DateFrom = dateFrom
	}
	if dateTo, ok := c.GetQueryFunc(reflect.String, "date_to").(*string); ok {
		filter.DateTo = dateTo
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// Modify applies an audited correction to one attendance record. Reason is
// mandatory and every accepted change lands in the modification history.
func (uc Controller) Modify(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok || !claims.Authorized(auth.RoleAdmin, auth.RoleAccounting) {
		return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusUnauthorized))
	}

	var request attendance.ModifyRequest

	if err := c.BindFunc(&request, "Field", "Reason"); err != nil {
		return c.RespondError(err)
	}
	request.ID = id

	newValue := ""
	if request.NewValue != nil {
		newValue = *request.NewValue
	}

	mod, err := uc.ledger.ApplyModification(c.Ctx, request.ID, *request.Field, newValue, *request.Reason, claims.UserId)
	if err != nil {
		return c.RespondError(ledgerError(err))
	}

	return c.Respond(map[string]interface{}{
		"data":   mod,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetModificationHistory(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.attendance.ModificationHistory(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   list,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetAllModifications(c *web.Context) error {
	var dateFrom, dateTo *string

	if from, ok := c.GetQueryFunc(reflect.String, "date_from").(*string); ok {
		dateFrom = from
	}
	if to, ok := c.GetQueryFunc(reflect.String, "date_to").(*string); ok {
		dateTo = to
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.attendance.AllModifications(c.Ctx, dateFrom, dateTo)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   list,
		"status": true,
	}, http.StatusOK)
}

// GetSummary returns the day's headline counts. Defaults to today when the
// date parameter is missing.
func (uc Controller) GetSummary(c *web.Context) error {
	workDay := time.Now().Format("2006-01-02")

	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok && date != nil {
		if _, err := time.Parse("2006-01-02", *date); err != nil {
			return c.RespondError(web.NewRequestError(errors.New("date must be YYYY-MM-DD"), http.StatusBadRequest))
		}
		workDay = *date
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	summary, err := uc.ledger.SummaryForDate(c.Ctx, workDay)
	if err != nil {
		return c.RespondError(err)
	}

	records, _, err := uc.attendance.GetList(c.Ctx, attendance.Filter{
		DateFrom: &workDay,
		DateTo:   &workDay,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"records": records,
			"summary": summary,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetStatistics(c *web.Context) error {
	response, err := uc.attendance.GetStatistics(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetPieChartStatistics(c *web.Context) error {
	response, err := uc.attendance.GetPieChartStatistic(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetBarChartStatistics(c *web.Context) error {
	response, err := uc.attendance.GetBarChartStatistic(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetGraphStatistic(c *web.Context) error {
	var filter attendance.GraphRequest

	monthStr := c.Query("month")
	if monthStr == "" {
		return c.RespondError(web.NewRequestError(errors.New("month parameter is required"), http.StatusBadRequest))
	}

	month, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.New("month must be YYYY-MM"), http.StatusBadRequest))
	}
	filter.Month = month

	if interval, ok := c.GetQueryFunc(reflect.Int, "interval").(*int); ok && interval != nil {
		filter.Interval = *interval
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.attendance.GetGraphStatistic(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   list,
		"status": true,
	}, http.StatusOK)
}

// ledgerError maps ledger rule violations to coded request errors; anything
// else passes through untouched.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrRecordNotFound):
		return web.NewRequestError(err, http.StatusNotFound)
	case errors.Is(err, ledger.ErrEmptyReason),
		errors.Is(err, ledger.ErrInvalidField),
		errors.Is(err, ledger.ErrInvalidValue):
		return web.NewRequestError(err, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInvalidOrdering):
		return web.NewCodedError(err, http.StatusConflict, "InvalidOrdering")
	}

	return err
}
