// models/reminder_log.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList stores a slice of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = StringList{}
		return nil
	default:
		return errors.New("unsupported type for StringList")
	}
}

// ReminderLog is the immutable record of one scheduler run, keyed by the
// invocation's calendar date for later aggregation.
type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Date          string    `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	ExecutionTime time.Time

	TotalUsers   int `gorm:"default:0"`
	MessagesSent int `gorm:"default:0"`
	WhatsAppSent int `gorm:"column:whatsapp_sent;default:0"`
	EmailSent    int `gorm:"default:0"`

	Errors StringList `gorm:"type:jsonb"`

	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
