package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaxDefinitionRequest struct {
	Name        string   `json:"name" binding:"required"`
	Code        string   `json:"code" binding:"required"`
	Rate        *float64 `json:"rate" binding:"required"`
	DueDays     *int     `json:"dueDays"`
	Description *string  `json:"description"`
}

// TaxDefinitionService manages the tax dictionary. Mutations are admin-only
// (enforced at the route level) and never rewrite existing report snapshots.
type TaxDefinitionService interface {
	List(ctx context.Context) ([]model.TaxDefinition, error)
	Create(ctx context.Context, actor *model.User, req TaxDefinitionRequest) (*model.TaxDefinition, error)
	Update(ctx context.Context, actor *model.User, id uint, req TaxDefinitionRequest) (*model.TaxDefinition, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
}

type taxDefinitionService struct {
	defs  repository.TaxDefinitionRepository
	audit *auditRecorder
}

func NewTaxDefinitionService(
	defs repository.TaxDefinitionRepository,
	auditRepo repository.AuditRepository,
	logger *zap.Logger,
) TaxDefinitionService {
	return &taxDefinitionService{
		defs:  defs,
		audit: newAuditRecorder(auditRepo, logger),
	}
}

func (s *taxDefinitionService) List(ctx context.Context) ([]model.TaxDefinition, error) {
	defs, err := s.defs.List(ctx)
	if err != nil {
		return nil, wrapInternal("list tax definitions", err)
	}
	return defs, nil
}

func (s *taxDefinitionService) Create(ctx context.Context, actor *model.User, req TaxDefinitionRequest) (*model.TaxDefinition, error) {
	def, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.defs.GetByCode(ctx, def.Code); err == nil {
		return nil, Errorf(KindValidation, "податок з таким кодом вже існує")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapInternal("check tax code", err)
	}

	if err := s.defs.Create(ctx, def); err != nil {
		return nil, wrapInternal("create tax definition", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionTaxCreate, map[string]any{
		"taxId": def.ID,
		"code":  def.Code,
	})
	return def, nil
}

func (s *taxDefinitionService) Update(ctx context.Context, actor *model.User, id uint, req TaxDefinitionRequest) (*model.TaxDefinition, error) {
	existing, err := s.defs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(KindNotFound, "податок не знайдено")
		}
		return nil, wrapInternal("fetch tax definition", err)
	}

	incoming, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if incoming.Code != existing.Code {
		if _, err := s.defs.GetByCode(ctx, incoming.Code); err == nil {
			return nil, Errorf(KindValidation, "податок з таким кодом вже існує")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapInternal("check tax code", err)
		}
	}

	existing.Name = incoming.Name
	existing.Code = incoming.Code
	existing.Rate = incoming.Rate
	existing.DueDays = incoming.DueDays
	existing.Description = incoming.Description

	if err := s.defs.Update(ctx, existing); err != nil {
		return nil, wrapInternal("update tax definition", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionTaxUpdate, map[string]any{
		"taxId": existing.ID,
		"code":  existing.Code,
	})
	return existing, nil
}

func (s *taxDefinitionService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if _, err := s.defs.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errorf(KindNotFound, "податок не знайдено")
		}
		return wrapInternal("fetch tax definition", err)
	}

	if err := s.defs.Delete(ctx, id); err != nil {
		return wrapInternal("delete tax definition", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionTaxDelete, map[string]any{"taxId": id})
	return nil
}

func (s *taxDefinitionService) validate(req TaxDefinitionRequest) (*model.TaxDefinition, error) {
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)
	if name == "" || code == "" || req.Rate == nil {
		return nil, Errorf(KindValidation, "заповніть назву, код і ставку податку")
	}

	rate := *req.Rate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return nil, Errorf(KindValidation, "ставка має бути невід'ємним числом")
	}
	if req.DueDays != nil && *req.DueDays < 0 {
		return nil, Errorf(KindValidation, "строк сплати має бути невід'ємним")
	}

	return &model.TaxDefinition{
		Name:        name,
		Code:        code,
		Rate:        rate,
		DueDays:     req.DueDays,
		Description: req.Description,
	}, nil
}
