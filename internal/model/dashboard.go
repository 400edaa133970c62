package model

// TaxSummaryRow is one aggregation bucket of the admin tax summary, grouped
// by (tax_type, tax_definition_id).
type TaxSummaryRow struct {
	TaxType         string  `json:"tax_type"`
	TaxDefinitionID *uint   `json:"tax_definition_id"`
	ReportCount     int64   `json:"report_count"`
	TotalBase       float64 `json:"total_base"`
	TotalTax        float64 `json:"total_tax"`
	TotalTotal      float64 `json:"total_total"`
}

// UserSummary is the short user projection shown on the admin dashboard.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReportSummary is the short report projection shown on the admin dashboard.
type ReportSummary struct {
	ID                uint    `json:"id"`
	DeclarationNumber *string `json:"declaration_number"`
	TaxType           string  `json:"tax_type"`
	TotalAmount       float64 `json:"total_amount"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	UserEmail         string  `json:"user_email"`
}

// DashboardResponse aggregates platform-wide counters and the latest records.
// Reports are bucketed by normalized status: planned counts as active,
// submitted and under-review as pending, completed as completed. Statuses
// outside the vocabulary are dropped from all three buckets.
type DashboardResponse struct {
	UsersTotal       int64           `json:"users_total"`
	ReportsTotal     int64           `json:"reports_total"`
	ReportsActive    int64           `json:"reports_active"`
	ReportsPending   int64           `json:"reports_pending"`
	ReportsCompleted int64           `json:"reports_completed"`
	LatestUsers      []UserSummary   `json:"latest_users"`
	LatestReports    []ReportSummary `json:"latest_reports"`
}
