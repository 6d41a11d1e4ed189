package services

import (
	"fmt"

	"remindhub-backend/models"

	"gorm.io/gorm"
)

// UnlimitedBalance is reported as the remaining balance when the channel's
// unlimited flag is set and the counter is ignored.
const UnlimitedBalance = -1

type CreditResult struct {
	Allowed   bool
	Remaining int
}

// CreditLedger accounts per-user, per-channel send credits.
type CreditLedger struct {
	db *gorm.DB
}

func NewCreditLedger(db *gorm.DB) *CreditLedger {
	return &CreditLedger{db: db}
}

// TryConsume deducts count credits from the user's channel balance. The
// decrement is a conditional UPDATE (balance >= count), so two overlapping
// runs cannot both spend the last credit. An insufficient balance leaves the
// counter untouched and returns Allowed=false.
func (l *CreditLedger) TryConsume(user *models.User, channel string, count int) (CreditResult, error) {
	var column string
	switch channel {
	case ChannelWhatsApp:
		if user.UnlimitedWhatsApp {
			return CreditResult{Allowed: true, Remaining: UnlimitedBalance}, nil
		}
		column = "whatsapp_credits"
	case ChannelEmail:
		if user.UnlimitedEmail {
			return CreditResult{Allowed: true, Remaining: UnlimitedBalance}, nil
		}
		column = "email_credits"
	default:
		return CreditResult{}, fmt.Errorf("unknown channel: %s", channel)
	}

	res := l.db.Model(&models.User{}).
		Where("id = ? AND "+column+" >= ?", user.ID, count).
		UpdateColumn(column, gorm.Expr(column+" - ?", count))
	if res.Error != nil {
		return CreditResult{}, res.Error
	}

	var remaining int
	if err := l.db.Model(&models.User{}).Select(column).
		Where("id = ?", user.ID).Scan(&remaining).Error; err != nil {
		return CreditResult{}, err
	}

	if res.RowsAffected == 0 {
		return CreditResult{Allowed: false, Remaining: remaining}, nil
	}

	// Keep the in-memory copy in step for later contacts in the same run.
	if channel == ChannelWhatsApp {
		user.WhatsAppCredits = remaining
	} else {
		user.EmailCredits = remaining
	}
	return CreditResult{Allowed: true, Remaining: remaining}, nil
}
