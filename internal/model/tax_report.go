package model

import (
	"strings"
	"time"
)

// Report lifecycle statuses. The canonical vocabulary is the Ukrainian one
// used by the web client; only planned and submitted are reachable through
// this API, the other two may exist in data imported from earlier deployments.
const (
	StatusPlanned     = "заплановано"
	StatusSubmitted   = "подано"
	StatusUnderReview = "на перевірці"
	StatusCompleted   = "завершено"
)

// legacyStatuses folds the English vocabulary of an earlier server variant
// into the canonical one.
var legacyStatuses = map[string]string{
	"active":    StatusPlanned,
	"pending":   StatusSubmitted,
	"completed": StatusCompleted,
}

// NormalizeStatus lower-cases a stored status and maps legacy English values
// onto the canonical vocabulary. Unknown values pass through lower-cased.
func NormalizeStatus(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	if mapped, ok := legacyStatuses[v]; ok {
		return mapped
	}
	return v
}

// TaxReport belongs to exactly one user and snapshots the tax rate and the
// derived amounts at creation/edit time. Changing the definition afterwards
// never rewrites existing reports.
type TaxReport struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	Title             string    `gorm:"type:varchar(255);not null" json:"title"`
	TaxType           string    `gorm:"type:varchar(255)" json:"tax_type"` // definition name snapshot
	TaxDefinitionID   *uint     `gorm:"index" json:"tax_definition_id"`
	BaseAmount        float64   `gorm:"not null" json:"base_amount"`
	TaxRate           float64   `gorm:"not null" json:"tax_rate"`
	TaxAmount         float64   `gorm:"not null" json:"tax_amount"`
	TotalAmount       float64   `gorm:"not null" json:"total_amount"`
	DueDate           *string   `gorm:"type:date" json:"due_date"` // YYYY-MM-DD
	Status            string    `gorm:"type:varchar(50);not null;default:заплановано" json:"status"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	DeclarationNumber *string   `gorm:"type:varchar(50)" json:"declaration_number"`
	Address           *string   `gorm:"type:varchar(255)" json:"address"`
}

func (TaxReport) TableName() string { return "tax_reports" }

// IsPlanned reports whether the record may still be edited or deleted.
// Submitted reports are immutable.
func (r *TaxReport) IsPlanned() bool {
	return r.Status == StatusPlanned
}
