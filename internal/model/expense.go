package model

import "time"

// Expense is a single expense entry owned by one user.
//
// AISuggestedCategoryID and AIConfidence are written by the system once, at
// creation time, and never accepted from client input. Category references
// are nulled (not cascaded) when the referenced category is deleted.
type Expense struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string    `gorm:"type:varchar(255);not null" json:"description"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`

	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`

	AISuggestedCategoryID *uint     `json:"ai_suggested_category_id"`
	AISuggestedCategory   *Category `gorm:"foreignKey:AISuggestedCategoryID;constraint:OnDelete:SET NULL" json:"ai_suggested_category,omitempty"`
	AIConfidence          *float64  `json:"ai_confidence"`
}

func (Expense) TableName() string {
	return "expenses"
}

// CategoryName resolves the category for display and prompts.
func (e *Expense) CategoryName() string {
	if e.Category != nil {
		return e.Category.Name
	}
	return Uncategorized
}

// DateOnly is the wire format for Expense.Date.
const DateOnly = "2006-01-02"
