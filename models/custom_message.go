package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomMessage is an operator-authored message for one contact, occasion and
// channel. At most one row exists per (contact, occasion, channel) and it wins
// over every other message/image source.
type CustomMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_occasion_channel,priority:1"`
	Occasion  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_contact_occasion_channel,priority:2"` // 'birthday', 'anniversary'
	Channel   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_contact_occasion_channel,priority:3"` // 'whatsapp', 'email'

	Message  string `gorm:"type:text;not null"`
	ImageURL string

	gorm.Model
}

func (m *CustomMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
