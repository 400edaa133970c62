package pdf

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tetianalytvynovska/tax-system/internal/model"
)

// Official document header lines shared by both documents.
const (
	headerMinistry = "МІНІСТЕРСТВО ФІНАНСІВ УКРАЇНИ"
	headerSystem   = "ІНФОРМАЦІЙНА СИСТЕМА TAXAGENT - супровід податкової звітності фізичних осіб"
	headerAddress  = "Код ЄДРПОУ: 00000000 · м. Київ, вул. Хрещатик, 1, 01001"
	footerApproved = "Затверджено електронною системою TAXAGENT"
)

// DeclarationFilename returns the suggested download name for one report.
func DeclarationFilename(reportID uint) string {
	return fmt.Sprintf("tax_declaration_%d.pdf", reportID)
}

// GenerateDeclaration renders the official single-declaration document for a
// report and its owner.
func GenerateDeclaration(report *model.TaxReport, owner *model.User) ([]byte, error) {
	m := maroto.New(config.NewBuilder().Build())

	addOfficialHeader(m)

	m.AddRow(10, text.NewCol(12, "ПОДАТКОВА ДЕКЛАРАЦІЯ", props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))

	m.AddRow(12, col.New(12).Add(
		text.New("Номер декларації: "+derefOrDash(report.DeclarationNumber), props.Text{Size: 11}),
		text.New("Дата формування: "+time.Now().Format("02.01.2006"), props.Text{Size: 11, Top: 5}),
	))

	m.AddRow(8, text.NewCol(12, "Відомості про платника податку:", props.Text{
		Size:  11,
		Style: fontstyle.Bold,
	}))
	m.AddRow(24, col.New(12).Add(
		text.New("ПІБ: "+owner.Name, props.Text{Size: 11}),
		text.New("РНОКПП / ІПН: "+owner.IPN, props.Text{Size: 11, Top: 5}),
		text.New("Email: "+owner.Email, props.Text{Size: 11, Top: 10}),
		text.New("Адреса: "+derefOrDash(report.Address), props.Text{Size: 11, Top: 15}),
	))

	m.AddRow(8, text.NewCol(12, "Відомості про зобов'язання:", props.Text{
		Size:  11,
		Style: fontstyle.Bold,
	}))
	m.AddRow(8,
		text.NewCol(1, "№", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(4, "Назва податку", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "База, грн", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(1, "Ставка, %", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Податок, грн", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Разом, грн", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))
	m.AddRow(8,
		text.NewCol(1, "1", props.Text{Size: 9}),
		text.NewCol(4, report.TaxType, props.Text{Size: 9}),
		text.NewCol(2, money(report.BaseAmount), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(1, money(report.TaxRate), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(report.TaxAmount), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(report.TotalAmount), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(14, col.New(12).Add(
		text.New(fmt.Sprintf("Усього до сплати: %s грн", money(report.TotalAmount)), props.Text{Size: 11, Top: 3}),
		text.New("Термін сплати: "+derefOrDash(report.DueDate), props.Text{Size: 11, Top: 8}),
	))

	qrPayload, _ := json.Marshal(map[string]any{
		"id":                 report.ID,
		"declaration_number": report.DeclarationNumber,
		"user_email":         owner.Email,
		"ipn":                owner.IPN,
	})
	m.AddRow(40,
		col.New(7),
		col.New(5).Add(
			code.NewQr(string(qrPayload), props.Rect{Center: true, Percent: 75}),
		),
	)
	m.AddRow(8, text.NewCol(12,
		"QR-код для перевірки достовірності декларації в системі TAXAGENT",
		props.Text{Size: 8, Align: align.Right}))

	addSignatureBlock(m, "Відповідальний за подання декларації:", owner.Name)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate declaration pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addOfficialHeader(m core.Maroto) {
	m.AddRow(8, text.NewCol(12, headerMinistry, props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(8, text.NewCol(12, headerSystem, props.Text{
		Size:  11,
		Align: align.Center,
	}))
	m.AddRow(6, text.NewCol(12, headerAddress, props.Text{
		Size:  10,
		Align: align.Center,
	}))
	m.AddRow(3, line.NewCol(12))
}

func addSignatureBlock(m core.Maroto, caption, signer string) {
	m.AddRow(8, text.NewCol(12, caption, props.Text{
		Size:  11,
		Style: fontstyle.Bold,
		Top:   4,
	}))
	m.AddRow(18, col.New(12).Add(
		text.New(fmt.Sprintf("__________________________ /%s/", signer), props.Text{Size: 11, Top: 6}),
		text.New("Дата: "+time.Now().Format("02.01.2006"), props.Text{Size: 11, Top: 12}),
	))
	m.AddRow(8, text.NewCol(12, footerApproved, props.Text{
		Size:  9,
		Style: fontstyle.Italic,
	}))
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func derefOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
