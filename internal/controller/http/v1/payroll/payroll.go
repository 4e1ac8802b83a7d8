package payroll

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/repository/postgres/payroll"
	"github.com/darkside779/attendance/internal/service/report"
)

type Controller struct {
	payroll Payroll
}

func NewController(payroll Payroll) *Controller {
	return &Controller{payroll}
}

func (uc Controller) CreatePeriod(c *web.Context) error {
	var request payroll.CreatePeriodRequest

	if err := c.BindFunc(&request, "Name", "StartDate", "EndDate"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.payroll.CreatePeriod(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetPeriodList(c *web.Context) error {
	var filter payroll.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.payroll.GetPeriodList(c.Ctx, filter)
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

func (uc Controller) CalculatePeriod(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.payroll.CalculatePeriod(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetRecords(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.payroll.GetRecords(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   list,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ApproveRecord(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.payroll.ApproveRecord(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) MarkPeriodPaid(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.payroll.MarkPeriodPaid(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) DeletePeriod(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.payroll.DeletePeriod(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// ExportExcel downloads the period's records as an xlsx workbook.
func (uc Controller) ExportExcel(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	records, err := uc.payroll.GetRecords(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	data, err := report.PayrollExcel(exportRows(records), fmt.Sprintf("Payroll period %d", id))
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%d.xlsx"`, id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	return nil
}

// ExportPDF downloads the period's records as a printable document.
func (uc Controller) ExportPDF(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	records, err := uc.payroll.GetRecords(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	data, err := report.PayrollPDF(exportRows(records), fmt.Sprintf("Payroll period %d", id))
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)

	return nil
}

func exportRows(records []payroll.RecordResponse) []report.PayrollRow {
	rows := make([]report.PayrollRow, 0, len(records))
	for _, r := range records {
		row := report.PayrollRow{
			RegularHours:  r.RegularHours,
			OvertimeHours: r.OvertimeHours,
			DaysWorked:    r.DaysWorked,
			RegularPay:    r.RegularPay,
			OvertimePay:   r.OvertimePay,
			GrossPay:      r.GrossPay,
			Status:        r.Status,
		}
		if r.Code != nil {
			row.Code = *r.Code
		}
		if r.FullName != nil {
			row.FullName = *r.FullName
		}
		rows = append(rows, row)
	}
	return rows
}
