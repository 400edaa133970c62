package model

import "time"

// Role names. A single administrator account exists, distinguished by the
// configured admin email; everyone registering through the API is a plain User.
const (
	RoleUser          = "User"
	RoleAdministrator = "Administrator"
)

// User represents the central identity entity for logic and database structure
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	IPN          string `gorm:"column:ipn;type:varchar(20);not null" json:"ipn"` // taxpayer number (РНОКПП)
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`             // Omit hash from JSON requests/responses
	Role         string `gorm:"type:varchar(50);not null;default:User" json:"role"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// AdminTwoFactor stores the one-time code for the administrator login.
// At most one live row per admin: replaced on re-login, consumed on verify.
type AdminTwoFactor struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Code      string    `gorm:"type:varchar(10);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (AdminTwoFactor) TableName() string { return "admin_2fa" }
