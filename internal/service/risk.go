package service

import (
	"math"
	"time"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

// Calibration constants: the maximum number of findings each component can
// produce, used to normalize counts into [0,1].
const (
	maxDataFindings       = 5
	maxArithmeticFindings = 2
	maxLogicFindings      = 3
	maxRegulatoryFindings = 3
)

// RiskWeights balances the four risk components. Zero-sum weights fall back
// to an equal split.
type RiskWeights struct {
	Alpha float64 `json:"alpha"` // data completeness
	Beta  float64 `json:"beta"`  // arithmetic consistency
	Gamma float64 `json:"gamma"` // value plausibility
	Delta float64 `json:"delta"` // regulatory timeliness
}

// DefaultRiskWeights weighs all components equally.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{Alpha: 0.25, Beta: 0.25, Gamma: 0.25, Delta: 0.25}
}

// RiskScore is the composite risk index of one report with its component
// breakdown. All values lie in [0,1].
type RiskScore struct {
	ReportID      uint    `json:"report_id"`
	Composite     float64 `json:"composite"`
	Data          float64 `json:"data"`
	Arithmetic    float64 `json:"arithmetic"`
	Logic         float64 `json:"logic"`
	Regulatory    float64 `json:"regulatory"`
	ExpectedTax   float64 `json:"expected_tax"`
	ExpectedTotal float64 `json:"expected_total"`
}

// ComputeRisk scores one report against four heuristic components:
// missing fields, amounts that disagree with the rate, implausible values,
// and regulatory findings such as an overdue planned declaration.
func ComputeRisk(r repository.ReportRow, w RiskWeights, now time.Time) RiskScore {
	status := model.NormalizeStatus(r.Status)
	due := parseDueDate(r.DueDate)

	var nData int
	if r.TaxName == "" && r.TaxType == "" {
		nData++
	}
	if !isFinite(r.BaseAmount) {
		nData++
	}
	if !isFinite(r.TaxRate) {
		nData++
	}
	if !isFinite(r.TaxAmount) {
		nData++
	}
	if r.Status == "" {
		nData++
	}

	var nArithm int
	expectedTax := round2(r.BaseAmount * r.TaxRate / 100)
	if math.Abs(expectedTax-round2(r.TaxAmount)) > 0.01 {
		nArithm++
	}
	expectedTotal := round2(r.BaseAmount + r.TaxAmount)
	if math.Abs(expectedTotal-round2(r.TotalAmount)) > 0.01 {
		nArithm++
	}

	var nLogic int
	if r.BaseAmount < 0 {
		nLogic++
	}
	if r.TaxAmount < 0 {
		nLogic++
	}
	if r.TaxRate < 0 || r.TaxRate > 100 {
		nLogic++
	}

	var nReg int
	if due != nil && due.Before(r.CreatedAt) {
		nReg++
	}
	if status == model.StatusPlanned && due != nil && due.Before(now) {
		nReg++
	}
	if status == model.StatusSubmitted && (r.DeclarationNumber == nil || *r.DeclarationNumber == "") {
		nReg++
	}

	score := RiskScore{
		ReportID:      r.ID,
		Data:          clamp01(float64(nData) / maxDataFindings),
		Arithmetic:    clamp01(float64(nArithm) / maxArithmeticFindings),
		Logic:         clamp01(float64(nLogic) / maxLogicFindings),
		Regulatory:    clamp01(float64(nReg) / maxRegulatoryFindings),
		ExpectedTax:   expectedTax,
		ExpectedTotal: expectedTotal,
	}

	wSum := w.Alpha + w.Beta + w.Gamma + w.Delta
	if wSum == 0 {
		w = DefaultRiskWeights()
		wSum = 1
	}
	score.Composite = clamp01(
		(w.Alpha*score.Data + w.Beta*score.Arithmetic + w.Gamma*score.Logic + w.Delta*score.Regulatory) / wSum)

	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseDueDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
