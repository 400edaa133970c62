package model

// TaxDefinition is an admin-managed tax type: a percentage rate plus an
// optional payment-due window in days. Reports snapshot the name and rate at
// creation time, so deleting a definition does not cascade.
type TaxDefinition struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Code        string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Rate        float64 `gorm:"not null" json:"rate"` // percent, e.g. 18 = 18%
	DueDays     *int    `gorm:"column:due_days" json:"due_days"`
	Description *string `gorm:"type:text" json:"description"`
}

func (TaxDefinition) TableName() string { return "tax_definitions" }
