package service

import (
	"context"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

const dashboardLatestLimit = 5

// SummaryService produces the admin aggregations: the per-tax summary and
// the platform dashboard.
type SummaryService interface {
	TaxSummary(ctx context.Context, f repository.ReportFilter) ([]model.TaxSummaryRow, error)
	Dashboard(ctx context.Context) (*model.DashboardResponse, error)
	AdminReports(ctx context.Context, f repository.ReportFilter) ([]repository.AdminReportRow, error)
}

type summaryService struct {
	reports repository.ReportRepository
	users   repository.UserRepository
}

func NewSummaryService(reports repository.ReportRepository, users repository.UserRepository) SummaryService {
	return &summaryService{reports: reports, users: users}
}

func (s *summaryService) TaxSummary(ctx context.Context, f repository.ReportFilter) ([]model.TaxSummaryRow, error) {
	if err := validateDateRange(f.FromDate, f.ToDate); err != nil {
		return nil, err
	}
	f.AdminView = true

	rows, err := s.reports.Summary(ctx, f)
	if err != nil {
		return nil, wrapInternal("aggregate tax summary", err)
	}
	for i := range rows {
		rows[i].TotalBase = round2(rows[i].TotalBase)
		rows[i].TotalTax = round2(rows[i].TotalTax)
		rows[i].TotalTotal = round2(rows[i].TotalTotal)
	}
	return rows, nil
}

func (s *summaryService) AdminReports(ctx context.Context, f repository.ReportFilter) ([]repository.AdminReportRow, error) {
	if err := validateDateRange(f.FromDate, f.ToDate); err != nil {
		return nil, err
	}
	f.AdminView = true

	rows, err := s.reports.ListWithOwners(ctx, f)
	if err != nil {
		return nil, wrapInternal("list reports with owners", err)
	}
	return rows, nil
}

func (s *summaryService) Dashboard(ctx context.Context) (*model.DashboardResponse, error) {
	usersTotal, err := s.users.Count(ctx)
	if err != nil {
		return nil, wrapInternal("count users", err)
	}

	reportsTotal, err := s.reports.Count(ctx)
	if err != nil {
		return nil, wrapInternal("count reports", err)
	}

	statuses, err := s.reports.AllStatuses(ctx)
	if err != nil {
		return nil, wrapInternal("load report statuses", err)
	}

	resp := model.DashboardResponse{
		UsersTotal:   usersTotal,
		ReportsTotal: reportsTotal,
	}

	// Statuses outside the vocabulary fall into no bucket, so the three
	// counters may sum to less than the total.
	for _, raw := range statuses {
		switch model.NormalizeStatus(raw) {
		case model.StatusPlanned:
			resp.ReportsActive++
		case model.StatusSubmitted, model.StatusUnderReview:
			resp.ReportsPending++
		case model.StatusCompleted:
			resp.ReportsCompleted++
		}
	}

	resp.LatestUsers, err = s.users.Latest(ctx, dashboardLatestLimit)
	if err != nil {
		return nil, wrapInternal("load latest users", err)
	}

	resp.LatestReports, err = s.reports.Latest(ctx, dashboardLatestLimit)
	if err != nil {
		return nil, wrapInternal("load latest reports", err)
	}

	return &resp, nil
}
