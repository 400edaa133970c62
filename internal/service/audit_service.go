package service

import (
	"context"

	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

// AuditPage is one page of the audit trail, newest first.
type AuditPage struct {
	Items  []repository.AuditRow `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// AuditService exposes the append-only trail to the administrator.
type AuditService interface {
	List(ctx context.Context, limit, offset int) (*AuditPage, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, limit, offset int) (*AuditPage, error) {
	if limit <= 0 {
		limit = auditDefaultLimit
	}
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, wrapInternal("list audit entries", err)
	}
	if rows == nil {
		rows = []repository.AuditRow{}
	}

	return &AuditPage{Items: rows, Total: total, Limit: limit, Offset: offset}, nil
}
