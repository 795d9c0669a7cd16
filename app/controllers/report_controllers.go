package controllers

import (
	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/resource"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

type ReportController struct {
	service *services.ReportService
}

func NewReportController(service *services.ReportService) *ReportController {
	return &ReportController{service: service}
}

func (rc *ReportController) Dashboard(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	d, err := rc.service.Dashboard(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(d)
}

// Sales handles GET /api/reports/sales?start_date=&end_date=&period=.
func (rc *ReportController) Sales(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := services.SalesReportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Period:    c.Query("period"),
	}
	report, err := rc.service.SalesReport(c.Context(), p, q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(response.M{
		"sales":   resource.Collection(report.Sales, resources.Sale),
		"summary": report.Summary,
	})
}
