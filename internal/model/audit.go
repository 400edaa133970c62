package model

import "time"

// Audit action tags.
const (
	ActionRegister        = "REGISTER"
	ActionLogin           = "LOGIN"
	ActionAdmin2FARequest = "ADMIN_LOGIN_2FA_REQUEST"
	ActionAdmin2FASuccess = "ADMIN_LOGIN_2FA_SUCCESS"

	ActionTaxCreate = "ADMIN_TAX_CREATE"
	ActionTaxUpdate = "ADMIN_TAX_UPDATE"
	ActionTaxDelete = "ADMIN_TAX_DELETE"

	ActionReportCreate   = "TAX_REPORT_CREATE"
	ActionReportUpdate   = "TAX_REPORT_UPDATE"
	ActionReportDelete   = "TAX_REPORT_DELETE"
	ActionReportSignSend = "TAX_REPORT_SIGN_SEND"
)

// AuditLog tracks who did what and when. Append-only: rows are never updated
// or deleted, and write failures never fail the parent operation.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   *string   `gorm:"type:text" json:"details"` // serialized JSON payload
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (AuditLog) TableName() string { return "audit_log" }
