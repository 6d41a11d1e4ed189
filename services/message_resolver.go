package services

import (
	"context"
	"fmt"
	"log"

	"remindhub-backend/models"

	"gorm.io/gorm"
)

// Relationship passed to the generator; per-contact relationships are not
// stored, only the tone is.
const defaultRelationship = "friend"

// Static greetings used when generation fails, keyed by occasion then tone.
var fallbackMessages = map[string]map[string]string{
	OccasionBirthday: {
		"warm":         "Happy Birthday, %s! Wishing you a wonderful day filled with joy, laughter, and all your favorite things. May this new year of your life bring you happiness, success, and beautiful memories!",
		"professional": "Happy Birthday, %s! Wishing you a successful and fulfilling year ahead. May this special day bring you well-deserved joy.",
		"casual":       "Happy Birthday, %s! Hope your day is packed with good food, good company, and zero worries. Have a great one!",
		"funny":        "Happy Birthday, %s! Another year older, another year of pretending to like birthday cards. Go eat some cake, you've earned it!",
	},
	OccasionAnniversary: {
		"warm":         "Happy Anniversary, %s! Celebrating another year of love, laughter, and beautiful memories together. Wishing you both continued happiness and many more wonderful years ahead!",
		"professional": "Happy Anniversary, %s! Congratulations on another year together. Wishing you both continued happiness.",
		"casual":       "Happy Anniversary, %s! Another year down and still going strong. Celebrate big today!",
		"funny":        "Happy Anniversary, %s! Another year of putting up with each other! That deserves a proper celebration.",
	},
}

// FallbackMessage returns the static greeting for an occasion and tone.
// Unknown tones fall back to warm; unknown occasions to a generic line.
// Never returns an empty string.
func FallbackMessage(name, occasion, tone string) string {
	byTone, ok := fallbackMessages[occasion]
	if !ok {
		return fmt.Sprintf("Happy %s, %s! Wishing you all the best on this special day!", occasion, name)
	}
	text, ok := byTone[tone]
	if !ok {
		text = byTone["warm"]
	}
	return fmt.Sprintf(text, name)
}

// MessageResolver picks the final message text for a contact/occasion/channel
// through a priority chain: custom message, generated text, static fallback.
type MessageResolver struct {
	db        *gorm.DB
	generator MessageGenerator
}

func NewMessageResolver(db *gorm.DB, generator MessageGenerator) *MessageResolver {
	return &MessageResolver{db: db, generator: generator}
}

// Resolve never fails and never returns empty text; a generation error only
// costs personalization.
func (r *MessageResolver) Resolve(ctx context.Context, contact *models.Contact, occasion, channel string) string {
	var custom models.CustomMessage
	err := r.db.Where("contact_id = ? AND occasion = ? AND channel = ?", contact.ID, occasion, channel).
		First(&custom).Error
	if err == nil && custom.Message != "" {
		return custom.Message
	}

	tone := contact.MessageTone
	if tone == "" {
		tone = "warm"
	}

	if r.generator != nil {
		text, err := r.generator.Generate(ctx, contact.Name, occasion, defaultRelationship, tone)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			log.Printf("Message generation failed for %s (%s): %v", contact.Name, occasion, err)
		}
	}

	return FallbackMessage(contact.Name, occasion, tone)
}
