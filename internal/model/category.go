package model

import "time"

// Category is a shared, uniquely-named expense category.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;unique" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Uncategorized is the fallback label used in prompts and answers for
// expenses without a category. It is not a stored Category.
const Uncategorized = "Uncategorized"
