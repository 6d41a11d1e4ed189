package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contact struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Email    string
	WhatsApp string `gorm:"column:whatsapp"`

	// Occasion dates. The year may be a placeholder when the contact was
	// imported without one; only month/day drive reminder matching.
	Birthday        *time.Time
	AnniversaryDate *time.Time

	MessageTone string `gorm:"type:varchar(20);default:'warm'"` // 'warm', 'professional', 'casual', 'funny'

	// Per-contact image overrides, one per channel.
	WhatsAppImageURL string `gorm:"column:whatsapp_image_url"`
	EmailImageURL    string

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
