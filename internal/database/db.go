package database

import (
	"fmt"

	"github.com/tetianalytvynovska/tax-system/internal/model"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewConnection opens the single-file SQLite database and migrates the schema
func NewConnection(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the five application tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.TaxDefinition{},
		&model.TaxReport{},
		&model.AdminTwoFactor{},
		&model.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}

// SeedAdmin inserts the designated administrator account when it does not
// exist yet. Idempotent across restarts.
func SeedAdmin(db *gorm.DB, name, email, ipn, password string) error {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.User{
		Name:         name,
		Email:        email,
		IPN:          ipn,
		PasswordHash: string(hash),
		Role:         model.RoleAdministrator,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}
	return nil
}
