package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/tetianalytvynovska/tax-system/internal/model"

	"gorm.io/gorm"
)

// ReportRow is a report joined with the definition name: the current name
// when the definition still exists, the snapshot tax_type otherwise.
type ReportRow struct {
	ID                uint      `json:"id"`
	UserID            uint      `json:"user_id"`
	Title             string    `json:"title"`
	TaxType           string    `json:"tax_type"`
	TaxDefinitionID   *uint     `json:"tax_definition_id"`
	TaxName           string    `json:"tax_name"`
	BaseAmount        float64   `json:"base_amount"`
	TaxRate           float64   `json:"tax_rate"`
	TaxAmount         float64   `json:"tax_amount"`
	TotalAmount       float64   `json:"total_amount"`
	DueDate           *string   `json:"due_date"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	DeclarationNumber *string   `json:"declaration_number"`
	Address           *string   `json:"address"`
}

// AdminReportRow is the admin export projection: a report plus owner email.
type AdminReportRow struct {
	ID                uint      `json:"id"`
	UserID            uint      `json:"user_id"`
	UserEmail         string    `json:"user_email"`
	Title             string    `json:"title"`
	TaxType           string    `json:"tax_type"`
	TaxDefinitionID   *uint     `json:"tax_definition_id"`
	BaseAmount        float64   `json:"base_amount"`
	TaxRate           float64   `json:"tax_rate"`
	TaxAmount         float64   `json:"tax_amount"`
	TotalAmount       float64   `json:"total_amount"`
	DueDate           *string   `json:"due_date"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	DeclarationNumber *string   `json:"declaration_number"`
	Address           *string   `json:"address"`
}

// ReportRepository defines data access for tax reports.
type ReportRepository interface {
	Create(ctx context.Context, report *model.TaxReport) error
	GetByID(ctx context.Context, id uint) (*model.TaxReport, error)
	Update(ctx context.Context, report *model.TaxReport) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f ReportFilter) ([]ReportRow, error)
	ListWithOwners(ctx context.Context, f ReportFilter) ([]AdminReportRow, error)
	CountCreatedInYear(ctx context.Context, year int) (int64, error)
	Summary(ctx context.Context, f ReportFilter) ([]model.TaxSummaryRow, error)
	Count(ctx context.Context) (int64, error)
	AllStatuses(ctx context.Context) ([]string, error)
	Latest(ctx context.Context, limit int) ([]model.ReportSummary, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.TaxReport) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*model.TaxReport, error) {
	var report model.TaxReport
	if err := GetDB(ctx, r.db).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.TaxReport) error {
	return GetDB(ctx, r.db).Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxReport{}).Error
}

func (r *reportRepository) List(ctx context.Context, f ReportFilter) ([]ReportRow, error) {
	var rows []ReportRow
	err := GetDB(ctx, r.db).
		Table("tax_reports").
		Select("tax_reports.*, COALESCE(tax_definitions.name, tax_reports.tax_type) AS tax_name").
		Joins("LEFT JOIN tax_definitions ON tax_definitions.id = tax_reports.tax_definition_id").
		Scopes(f.Scope()).
		Order("tax_reports.created_at DESC, tax_reports.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) ListWithOwners(ctx context.Context, f ReportFilter) ([]AdminReportRow, error) {
	var rows []AdminReportRow
	err := GetDB(ctx, r.db).
		Table("tax_reports").
		Select("tax_reports.*, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = tax_reports.user_id").
		Scopes(f.Scope()).
		Order("tax_reports.created_at DESC, tax_reports.id DESC").
		Scan(&rows).Error
	return rows, err
}

// CountCreatedInYear counts reports whose creation date falls in the given
// calendar year; the per-year declaration sequence derives from it.
func (r *reportRepository) CountCreatedInYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.TaxReport{}).
		Where("strftime('%Y', created_at) = ?", strconv.Itoa(year)).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.TaxReport{}).Count(&count).Error
	return count, err
}

// AllStatuses returns every stored status value, one per report. Bucketing
// happens in the service so legacy vocabularies normalize uniformly.
func (r *reportRepository) AllStatuses(ctx context.Context) ([]string, error) {
	var statuses []string
	err := GetDB(ctx, r.db).
		Model(&model.TaxReport{}).
		Pluck("status", &statuses).Error
	return statuses, err
}

func (r *reportRepository) Latest(ctx context.Context, limit int) ([]model.ReportSummary, error) {
	var rows []model.ReportSummary
	err := GetDB(ctx, r.db).
		Table("tax_reports").
		Select("tax_reports.id, tax_reports.declaration_number, tax_reports.tax_type, "+
			"tax_reports.total_amount, tax_reports.status, tax_reports.created_at, "+
			"users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = tax_reports.user_id").
		Order("tax_reports.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) Summary(ctx context.Context, f ReportFilter) ([]model.TaxSummaryRow, error) {
	var rows []model.TaxSummaryRow
	err := GetDB(ctx, r.db).
		Table("tax_reports").
		Select("tax_reports.tax_type, tax_reports.tax_definition_id, "+
			"COUNT(*) AS report_count, "+
			"SUM(tax_reports.base_amount) AS total_base, "+
			"SUM(tax_reports.tax_amount) AS total_tax, "+
			"SUM(tax_reports.total_amount) AS total_total").
		Scopes(f.Scope()).
		Group("tax_reports.tax_type, tax_reports.tax_definition_id").
		Order("tax_reports.tax_type").
		Scan(&rows).Error
	return rows, err
}
