package service

import (
	"context"
	"encoding/json"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"

	"go.uber.org/zap"
)

// auditRecorder appends audit entries on a best-effort basis: failures are
// logged and swallowed so they never fail the parent operation.
type auditRecorder struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

func newAuditRecorder(repo repository.AuditRepository, logger *zap.Logger) *auditRecorder {
	return &auditRecorder{repo: repo, logger: logger}
}

func (a *auditRecorder) record(ctx context.Context, userID uint, action string, details any) {
	entry := model.AuditLog{Action: action}
	if userID != 0 {
		entry.UserID = &userID
	}
	if details != nil {
		if payload, err := json.Marshal(details); err == nil {
			s := string(payload)
			entry.Details = &s
		}
	}

	if err := a.repo.Append(ctx, &entry); err != nil {
		a.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.Uint("user_id", userID),
			zap.Error(err))
	}
}
