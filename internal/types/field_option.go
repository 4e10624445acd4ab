package types

import (
	"time"
)

// FieldOption is one selectable choice of a RadioGroup or Select question.
type FieldOption struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"not null" json:"text"`
	Value      string    `gorm:"not null" json:"value"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (FieldOption) TableName() string { return "field_option" }
