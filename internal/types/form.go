package types

import (
	"time"

	"github.com/google/uuid"
)

// Form is the root record of a synthesized form. The numeric ID is the
// internal key; FormID is the opaque identifier handed to external callers.
type Form struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"form_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	// UserPrompt keeps the original natural-language request for provenance
	// and re-generation.
	UserPrompt string     `gorm:"column:user_prompt;type:text" json:"user_prompt"`
	UserID     *string    `gorm:"index" json:"user_id,omitempty"`
	Published  bool       `gorm:"not null;default:false" json:"published"`
	Questions  []Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormID;references:ID" json:"questions,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (Form) TableName() string { return "form" }
