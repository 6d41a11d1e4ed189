package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SentMarker dedupes sends across adjacent scheduler invocations: one row per
// (contact, occasion, date) claimed before delivery, swept after ExpiresAt.
type SentMarker struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sent_once,priority:1"`
	Occasion  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_sent_once,priority:2"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_sent_once,priority:3"`
	ExpiresAt time.Time `gorm:"index"`

	gorm.Model
}

func (m *SentMarker) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
