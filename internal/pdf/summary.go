package pdf

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

// SummaryFilename is the suggested download name for the aggregated report.
const SummaryFilename = "tax_reports_summary_official.pdf"

// SummaryFilters annotates the document with the filter set it was built
// from; the same values feed the verification QR payload.
type SummaryFilters struct {
	TaxDefinitionID uint   `json:"taxDefinitionId,omitempty"`
	FromDate        string `json:"fromDate,omitempty"`
	ToDate          string `json:"toDate,omitempty"`
}

// GenerateSummary renders the official aggregated report: per-tax totals
// followed by the detailed declaration list.
func GenerateSummary(summary []model.TaxSummaryRow, reports []repository.AdminReportRow, filters SummaryFilters) ([]byte, error) {
	m := maroto.New(config.NewBuilder().Build())

	addOfficialHeader(m)

	m.AddRow(10, text.NewCol(12, "ЗВІТ ПРО ПОДАТКОВІ НАРАХУВАННЯ (АГРЕГОВАНИЙ)", props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))

	meta := col.New(12).Add(
		text.New("Дата формування: "+time.Now().Format("02.01.2006"), props.Text{Size: 11}),
	)
	if filters.FromDate != "" || filters.ToDate != "" {
		meta.Add(text.New(
			fmt.Sprintf("Період: %s по %s", orDash(filters.FromDate), orDash(filters.ToDate)),
			props.Text{Size: 11, Top: 5}))
	}
	m.AddRow(12, meta)

	m.AddRow(8, text.NewCol(12, "1. Агрегована інформація по податках:", props.Text{
		Size:  12,
		Style: fontstyle.Bold,
	}))
	if len(summary) == 0 {
		m.AddRow(8, text.NewCol(12,
			"Даних за обраний період не знайдено. Очікуйте подані звіти від користувачів.",
			props.Text{Size: 11}))
	} else {
		for i, row := range summary {
			m.AddRow(7, text.NewCol(12, fmt.Sprintf(
				"%d. %s - декларацій: %d, база: %s грн, податок: %s грн, разом: %s грн",
				i+1, orDash(row.TaxType), row.ReportCount,
				money(row.TotalBase), money(row.TotalTax), money(row.TotalTotal),
			), props.Text{Size: 11}))
		}
	}

	m.AddRow(8, text.NewCol(12, "2. Деталізований перелік декларацій:", props.Text{
		Size:  12,
		Style: fontstyle.Bold,
		Top:   2,
	}))
	if len(reports) == 0 {
		m.AddRow(8, text.NewCol(12,
			"Немає жодного поданого звіту для вказаних фільтрів. Очікуйте подані декларації.",
			props.Text{Size: 11}))
	} else {
		for i, r := range reports {
			number := derefOrDash(r.DeclarationNumber)
			m.AddRow(12, col.New(12).Add(
				text.New(fmt.Sprintf("%d. Декларація № %s · користувач: %s", i+1, number, r.UserEmail),
					props.Text{Size: 10}),
				text.New(fmt.Sprintf(
					"    %s; база: %s грн; ставка: %s%%; податок: %s грн; разом: %s грн; термін: %s; статус: %s; створено: %s",
					r.TaxType, money(r.BaseAmount), money(r.TaxRate), money(r.TaxAmount),
					money(r.TotalAmount), derefOrDash(r.DueDate), r.Status,
					r.CreatedAt.Format("2006-01-02 15:04:05"),
				), props.Text{Size: 9, Top: 4}),
			))
		}
	}

	qrPayload, _ := json.Marshal(map[string]any{
		"filters": filters,
		"count":   len(reports),
	})
	m.AddRow(40,
		col.New(7),
		col.New(5).Add(
			code.NewQr(string(qrPayload), props.Rect{Center: true, Percent: 75}),
		),
	)
	m.AddRow(8, text.NewCol(12,
		"QR-код для перевірки зведеного звіту в системі TAXAGENT",
		props.Text{Size: 8, Align: align.Right}))

	addSignatureBlock(m, "Відповідальний за формування звіту:", "System Admin")

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate summary pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
