package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings holds per-user delivery configuration. One row per user,
// created lazily with defaults the first time it is read.
type UserSettings struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Timezone      string `gorm:"default:'UTC'"`               // IANA identifier
	DailySendTime string `gorm:"type:varchar(5);default:'09:00'"` // HH:MM, user-local

	WhatsAppProvider string `gorm:"column:whatsapp_provider;type:varchar(20);default:'meta'"` // 'meta', 'digitalsms', 'twilio'

	MetaPhoneNumberID string
	MetaAccessToken   string

	DigitalSMSAPIKey string `gorm:"column:digitalsms_api_key"`
	DigitalSMSSender string `gorm:"column:digitalsms_sender"`

	TwilioAccountSID string `gorm:"column:twilio_account_sid"`
	TwilioAuthToken  string
	TwilioFromNumber string

	EmailAPIKey string
	SenderEmail string
	SenderName  string

	SendReport bool `gorm:"default:false"`

	gorm.Model
}

func (s *UserSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
