package repository

import (
	"context"
	"time"

	"github.com/tetianalytvynovska/tax-system/internal/model"

	"gorm.io/gorm"
)

// AuditRow is an audit entry joined with the actor's email for display.
type AuditRow struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"user_id"`
	UserEmail *string   `json:"user_email"`
	Action    string    `json:"action"`
	Details   *string   `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditRepository appends to and reads the append-only audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]AuditRow, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]AuditRow, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AuditRow
	err := GetDB(ctx, r.db).
		Table("audit_log").
		Select("audit_log.id, audit_log.user_id, users.email AS user_email, audit_log.action, audit_log.details, audit_log.timestamp").
		Joins("LEFT JOIN users ON users.id = audit_log.user_id").
		Order("audit_log.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}
