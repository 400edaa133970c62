package repository

import (
	"context"
	"time"

	"github.com/tetianalytvynovska/tax-system/internal/model"

	"gorm.io/gorm"
)

// TwoFactorRepository manages the ephemeral admin_2fa table: at most one live
// row per administrator.
type TwoFactorRepository interface {
	Replace(ctx context.Context, userID uint, code string, expiresAt time.Time) error
	GetValid(ctx context.Context, userID uint, code string, now time.Time) (*model.AdminTwoFactor, error)
	Delete(ctx context.Context, userID uint) error
}

type twoFactorRepository struct {
	db *gorm.DB
}

func NewTwoFactorRepository(db *gorm.DB) TwoFactorRepository {
	return &twoFactorRepository{db: db}
}

// Replace drops any previous code for the user and stores the new one, both
// inside one transaction so re-login never leaves two live rows.
func (r *twoFactorRepository) Replace(ctx context.Context, userID uint, code string, expiresAt time.Time) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.AdminTwoFactor{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.AdminTwoFactor{
			UserID:    userID,
			Code:      code,
			ExpiresAt: expiresAt,
		}).Error
	})
}

func (r *twoFactorRepository) GetValid(ctx context.Context, userID uint, code string, now time.Time) (*model.AdminTwoFactor, error) {
	var row model.AdminTwoFactor
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND code = ? AND expires_at > ?", userID, code, now).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *twoFactorRepository) Delete(ctx context.Context, userID uint) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.AdminTwoFactor{}).Error
}
