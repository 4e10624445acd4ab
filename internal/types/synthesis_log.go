package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SynthesisCallCreate  = "create"
	SynthesisCallAugment = "augment"
)

// SynthesisLog is a provenance record of one provider call: which model was
// asked what, what came back, and whether the pipeline succeeded. Written
// best-effort outside the form transaction, so a logging failure never
// affects the synthesized form.
type SynthesisLog struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   *string        `gorm:"index" json:"user_id,omitempty"`
	FormID   *uint          `gorm:"index" json:"form_id,omitempty"`
	CallType string         `gorm:"column:call_type;not null" json:"call_type"`
	Provider string         `gorm:"not null" json:"provider"`
	Model    string         `gorm:"not null" json:"model"`
	Prompt   string         `gorm:"type:text" json:"prompt"`
	Response string         `gorm:"type:text" json:"response"`
	Success  bool           `gorm:"not null" json:"success"`
	Error    string         `gorm:"type:text" json:"error"`
	Usage    datatypes.JSON `gorm:"column:usage" json:"usage"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SynthesisLog) TableName() string { return "synthesis_log" }

func (s *SynthesisLog) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
