package types

import (
	"time"
)

// FieldType is the closed set of input widgets a question can render as.
type FieldType string

const (
	FieldTypeRadioGroup FieldType = "RadioGroup"
	FieldTypeSelect     FieldType = "Select"
	FieldTypeInput      FieldType = "Input"
	FieldTypeTextarea   FieldType = "Textarea"
	FieldTypeSwitch     FieldType = "Switch"
)

func (f FieldType) Valid() bool {
	switch f {
	case FieldTypeRadioGroup, FieldTypeSelect, FieldTypeInput, FieldTypeTextarea, FieldTypeSwitch:
		return true
	default:
		return false
	}
}

// TakesOptions reports whether the field type carries a fixed option set.
func (f FieldType) TakesOptions() bool {
	return f == FieldTypeRadioGroup || f == FieldTypeSelect
}

// Question belongs to exactly one Form. There is no order column: display
// order is insertion order, i.e. ascending ID.
type Question struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID       uint          `gorm:"not null;index" json:"form_id"`
	Text         string        `gorm:"type:text;not null" json:"text"`
	FieldType    FieldType     `gorm:"column:field_type;not null" json:"fieldType"`
	FieldOptions []FieldOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"fieldOptions,omitempty"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "question" }
