package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestGenerateDeclaration(t *testing.T) {
	number := "2025/0001"
	due := "2025-04-15"
	report := &model.TaxReport{
		ID:                7,
		UserID:            2,
		Title:             "Декларація",
		TaxType:           "ПДФО",
		BaseAmount:        1000,
		TaxRate:           18,
		TaxAmount:         180,
		TotalAmount:       1180,
		DueDate:           &due,
		Status:            model.StatusPlanned,
		DeclarationNumber: &number,
	}
	owner := &model.User{ID: 2, Name: "Іван Петренко", Email: "ivan@example.com", IPN: "1234567890"}

	doc, err := GenerateDeclaration(report, owner)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGenerateDeclarationNilOptionals(t *testing.T) {
	report := &model.TaxReport{ID: 1, TaxType: "ПДФО", Status: model.StatusPlanned}
	owner := &model.User{ID: 1, Name: "N", Email: "n@example.com", IPN: "1"}

	doc, err := GenerateDeclaration(report, owner)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestGenerateSummary(t *testing.T) {
	defID := uint(1)
	due := "2025-04-15"
	summary := []model.TaxSummaryRow{
		{TaxType: "ПДФО", TaxDefinitionID: &defID, ReportCount: 3, TotalBase: 600, TotalTax: 60, TotalTotal: 660},
	}
	reports := []repository.AdminReportRow{
		{
			ID:                7,
			UserEmail:         "user@example.com",
			TaxType:           "ПДФО",
			BaseAmount:        1000,
			TaxRate:           18,
			TaxAmount:         180,
			TotalAmount:       1180,
			DueDate:           &due,
			Status:            model.StatusSubmitted,
			CreatedAt:         time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
			DeclarationNumber: strPtr("2025/0001"),
		},
	}

	doc, err := GenerateSummary(summary, reports, SummaryFilters{FromDate: "2025-01-01", ToDate: "2025-03-31"})
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGenerateSummaryEmpty(t *testing.T) {
	doc, err := GenerateSummary(nil, nil, SummaryFilters{})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestDeclarationFilename(t *testing.T) {
	assert.Equal(t, "tax_declaration_42.pdf", DeclarationFilename(42))
}
