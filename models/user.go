package models

import (
	"time"

	"remindhub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	FullName string    `gorm:"not null"`

	// Normalized 10-digit Indian mobile number, optional.
	PhoneNumber string `gorm:"type:varchar(10)"`

	SubscriptionStatus string `gorm:"type:varchar(20);default:'trial'"` // 'trial', 'active', 'expired'
	IsAdmin            bool   `gorm:"default:false"`

	// Per-channel send credits. Ignored when the matching unlimited flag is set.
	WhatsAppCredits   int  `gorm:"column:whatsapp_credits;default:10"`
	EmailCredits      int  `gorm:"default:10"`
	UnlimitedWhatsApp bool `gorm:"column:unlimited_whatsapp;default:false"`
	UnlimitedEmail    bool `gorm:"default:false"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	Contacts []Contact `gorm:"foreignKey:UserID"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
