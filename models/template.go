package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Template struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Type    string `gorm:"type:varchar(20);not null"` // 'whatsapp' or 'email'
	Subject string
	Content string `gorm:"type:text;not null"`

	// At most one default per (user, type), enforced on write.
	IsDefault bool `gorm:"default:false"`

	// Channel fallback images consulted when neither the custom message nor
	// the contact carries one.
	WhatsAppImageURL string `gorm:"column:whatsapp_image_url"`
	EmailImageURL    string

	gorm.Model
}

func (t *Template) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
