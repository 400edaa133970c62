package repository

import (
	"context"

	"github.com/tetianalytvynovska/tax-system/internal/model"

	"gorm.io/gorm"
)

// TaxDefinitionRepository defines data access for the tax dictionary.
type TaxDefinitionRepository interface {
	List(ctx context.Context) ([]model.TaxDefinition, error)
	GetByID(ctx context.Context, id uint) (*model.TaxDefinition, error)
	GetByCode(ctx context.Context, code string) (*model.TaxDefinition, error)
	Create(ctx context.Context, def *model.TaxDefinition) error
	Update(ctx context.Context, def *model.TaxDefinition) error
	Delete(ctx context.Context, id uint) error
}

type taxDefinitionRepository struct {
	db *gorm.DB
}

func NewTaxDefinitionRepository(db *gorm.DB) TaxDefinitionRepository {
	return &taxDefinitionRepository{db: db}
}

func (r *taxDefinitionRepository) List(ctx context.Context) ([]model.TaxDefinition, error) {
	var defs []model.TaxDefinition
	err := GetDB(ctx, r.db).Order("name").Find(&defs).Error
	return defs, err
}

func (r *taxDefinitionRepository) GetByID(ctx context.Context, id uint) (*model.TaxDefinition, error) {
	var def model.TaxDefinition
	if err := GetDB(ctx, r.db).First(&def, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *taxDefinitionRepository) GetByCode(ctx context.Context, code string) (*model.TaxDefinition, error) {
	var def model.TaxDefinition
	if err := GetDB(ctx, r.db).First(&def, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *taxDefinitionRepository) Create(ctx context.Context, def *model.TaxDefinition) error {
	return GetDB(ctx, r.db).Create(def).Error
}

func (r *taxDefinitionRepository) Update(ctx context.Context, def *model.TaxDefinition) error {
	return GetDB(ctx, r.db).Save(def).Error
}

func (r *taxDefinitionRepository) Delete(ctx context.Context, id uint) error {
	// No cascade: existing reports keep their name/rate snapshot.
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxDefinition{}).Error
}
