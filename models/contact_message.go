package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      *string   `json:"name,omitempty" gorm:"type:text"`
	Email     string    `json:"email" gorm:"type:text;not null"`
	Subject   *string   `json:"subject,omitempty" gorm:"type:text"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (m *ContactMessage) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
