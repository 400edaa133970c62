package repository

import (
	"strings"

	"gorm.io/gorm"
)

// ReportFilter enumerates the recognized report filters. Zero values are
// omitted from the query entirely, never matched as zero/empty-string.
// The same filter backs the user listing, the admin summary and the admin
// export; the views differ only in whether the owner predicate applies.
type ReportFilter struct {
	UserID          uint   // restrict to one owner; ignored when AdminView is set
	TaxDefinitionID uint   // exact match
	FromDate        string // inclusive date-only lower bound, YYYY-MM-DD
	ToDate          string // inclusive date-only upper bound, YYYY-MM-DD
	AdminView       bool
}

// Scope applies the predicates in a fixed order so positional parameters line
// up with clause emission. With no options set the query is left untouched.
func (f ReportFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != 0 && !f.AdminView {
			db = db.Where("tax_reports.user_id = ?", f.UserID)
		}
		if f.TaxDefinitionID != 0 {
			db = db.Where("tax_reports.tax_definition_id = ?", f.TaxDefinitionID)
		}
		if strings.TrimSpace(f.FromDate) != "" {
			db = db.Where("DATE(tax_reports.created_at) >= DATE(?)", f.FromDate)
		}
		if strings.TrimSpace(f.ToDate) != "" {
			db = db.Where("DATE(tax_reports.created_at) <= DATE(?)", f.ToDate)
		}
		return db
	}
}
