package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

// CSVFilename is the suggested download name for the admin export.
const CSVFilename = "tax_reports_export.csv"

var csvHeader = []string{
	"id",
	"declaration_number",
	"user_email",
	"title",
	"tax_type",
	"tax_definition_id",
	"base_amount",
	"tax_rate",
	"tax_amount",
	"total_amount",
	"due_date",
	"status",
	"created_at",
	"address",
}

// WriteReportsCSV streams the admin report export as semicolon-separated
// values, the dialect Excel expects in the target locale. An empty result
// set still produces the header plus a human-readable placeholder row.
func WriteReportsCSV(w io.Writer, rows []repository.AdminReportRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	if len(rows) == 0 {
		placeholder := []string{"Немає даних за обраний період", "Очікуйте подані звіти від користувачів"}
		if err := cw.Write(placeholder); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	for _, r := range rows {
		record := []string{
			fmt.Sprintf("%d", r.ID),
			deref(r.DeclarationNumber),
			r.UserEmail,
			r.Title,
			r.TaxType,
			derefID(r.TaxDefinitionID),
			fmt.Sprintf("%.2f", r.BaseAmount),
			fmt.Sprintf("%.2f", r.TaxRate),
			fmt.Sprintf("%.2f", r.TaxAmount),
			fmt.Sprintf("%.2f", r.TotalAmount),
			deref(r.DueDate),
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			deref(r.Address),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefID(id *uint) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}
