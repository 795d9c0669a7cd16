package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

// ReportService computes read-only aggregates over completed sales.
type ReportService struct {
	d Deps
}

type PeriodTotals struct {
	Sales        decimal.Decimal `json:"sales"`
	Transactions int64           `json:"transactions"`
}

type ProductTotals struct {
	Total    int64 `json:"total"`
	LowStock int64 `json:"low_stock"`
}

type Dashboard struct {
	Today       PeriodTotals              `json:"today"`
	Month       PeriodTotals              `json:"month"`
	Products    ProductTotals             `json:"products"`
	TopProducts []repositories.TopProduct `json:"top_products"`
}

type SalesReportQuery struct {
	StartDate string `json:"start_date" validate:"nullable,date"`
	EndDate   string `json:"end_date"   validate:"nullable,date,after_or_equal=start_date"`
	Period    string `json:"period"     validate:"nullable,in=today,week,month,year"`
}

type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int64           `json:"total_transactions"`
	AverageSale       decimal.Decimal `json:"average_sale"`
}

type SalesReport struct {
	Sales   []models.Sale
	Summary SalesSummary
}

const topProductsLimit = 5

// scope returns the shop filter for the caller, nil meaning every shop.
func (s *ReportService) scope(p policies.Principal) *uint {
	if !s.d.Settings.ShopScopedReports {
		return nil
	}
	id := p.Shop()
	return &id
}

func (s *ReportService) Dashboard(ctx context.Context, p policies.Principal) (*Dashboard, error) {
	if err := s.d.Gate.Authorize(p, policies.DashboardView, policies.Resource{}); err != nil {
		return nil, err
	}
	now := s.d.now().In(s.d.location())
	today := startOfDay(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	shop := s.scope(p)

	t, err := s.d.Store.Reports.CompletedTotals(ctx, shop, repositories.Window{From: today, To: today.AddDate(0, 0, 1)})
	if err != nil {
		return nil, err
	}
	m, err := s.d.Store.Reports.CompletedTotals(ctx, shop, repositories.Window{From: month})
	if err != nil {
		return nil, err
	}
	total, low, err := s.d.Store.Reports.ActiveProductCounts(ctx, shop, s.d.Settings.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	top, err := s.d.Store.Reports.TopProducts(ctx, shop, repositories.Window{From: month}, topProductsLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Today:       PeriodTotals{Sales: t.Sales, Transactions: t.Transactions},
		Month:       PeriodTotals{Sales: m.Sales, Transactions: m.Transactions},
		Products:    ProductTotals{Total: total, LowStock: low},
		TopProducts: top,
	}, nil
}

// SalesReport lists completed sales in a window. Both dates win over
// period; with neither, every completed sale is included.
func (s *ReportService) SalesReport(ctx context.Context, p policies.Principal, q SalesReportQuery) (*SalesReport, error) {
	if errs := validate.Struct(&q); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	if err := s.d.Gate.Authorize(p, policies.ReportView, policies.Resource{}); err != nil {
		return nil, err
	}

	w, err := s.window(q)
	if err != nil {
		return nil, err
	}
	sales, err := s.d.Store.Reports.CompletedSales(ctx, s.scope(p), w)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Total)
	}
	count := int64(len(sales))
	avg := decimal.Zero
	if count > 0 {
		avg = total.Div(decimal.NewFromInt(count)).Round(2)
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	return &SalesReport{
		Sales:   sales,
		Summary: SalesSummary{TotalSales: total, TotalTransactions: count, AverageSale: avg},
	}, nil
}

func (s *ReportService) window(q SalesReportQuery) (repositories.Window, error) {
	loc := s.d.location()
	if q.StartDate != "" && q.EndDate != "" {
		from, err := parseDay(q.StartDate, loc)
		if err != nil {
			return repositories.Window{}, apperr.Field("start_date", "The start_date is not a valid date.")
		}
		to, err := parseDay(q.EndDate, loc)
		if err != nil {
			return repositories.Window{}, apperr.Field("end_date", "The end_date is not a valid date.")
		}
		return repositories.Window{From: from, To: to.AddDate(0, 0, 1)}, nil
	}

	now := s.d.now().In(loc)
	today := startOfDay(now)
	switch q.Period {
	case "today":
		return repositories.Window{From: today, To: today.AddDate(0, 0, 1)}, nil
	case "week":
		offset := (int(today.Weekday()) + 6) % 7
		return repositories.Window{From: today.AddDate(0, 0, -offset)}, nil
	case "month":
		return repositories.Window{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)}, nil
	case "year":
		return repositories.Window{From: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)}, nil
	}
	return repositories.Window{}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseDay reads the calendar date of s in loc. Time parts are dropped.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return startOfDay(t.In(loc)), nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: "2006-01-02", Value: s}
}
