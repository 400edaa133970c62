package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestWriteReportsCSV(t *testing.T) {
	number := "2025/0001"
	due := "2025-04-15"
	id := uint(3)
	created := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	rows := []repository.AdminReportRow{
		{
			ID:                7,
			UserID:            2,
			UserEmail:         "user@example.com",
			Title:             "Декларація за Q1",
			TaxType:           "ПДФО",
			TaxDefinitionID:   &id,
			BaseAmount:        1000,
			TaxRate:           18,
			TaxAmount:         180,
			TotalAmount:       1180,
			DueDate:           &due,
			Status:            "заплановано",
			CreatedAt:         created,
			DeclarationNumber: &number,
			Address:           strPtr(`м. Київ; вул. "Головна" 1`),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportsCSV(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"id;declaration_number;user_email;title;tax_type;tax_definition_id;base_amount;tax_rate;tax_amount;total_amount;due_date;status;created_at;address",
		lines[0])

	record := lines[1]
	assert.True(t, strings.HasPrefix(record, "7;2025/0001;user@example.com;"))
	assert.Contains(t, record, ";1000.00;18.00;180.00;1180.00;")
	assert.Contains(t, record, "2025-03-10 14:30:00")
	// Semicolons and quotes in a field force quoting with doubled quotes.
	assert.Contains(t, record, `"м. Київ; вул. ""Головна"" 1"`)
}

func TestWriteReportsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportsCSV(&buf, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Немає даних за обраний період;Очікуйте подані звіти від користувачів", lines[1])
}

func TestWriteReportsCSVNilOptionals(t *testing.T) {
	rows := []repository.AdminReportRow{{
		ID:        1,
		UserEmail: "u@example.com",
		Title:     "t",
		TaxType:   "x",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    "заплановано",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReportsCSV(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Empty strings for every nil pointer, no "<nil>" artifacts.
	assert.NotContains(t, lines[1], "nil")
	assert.True(t, strings.HasPrefix(lines[1], "1;;u@example.com;t;x;;"))
}
