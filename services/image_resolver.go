package services

import (
	"remindhub-backend/models"

	"gorm.io/gorm"
)

// Built-in celebration images used when no custom, contact or template image
// is configured.
var defaultOccasionImages = map[string]string{
	OccasionBirthday:    "https://images.unsplash.com/photo-1530103862676-de8c9debad1d?w=400&h=400&fit=crop",
	OccasionAnniversary: "https://images.unsplash.com/photo-1518199266791-5375a83190b7?w=400&h=400&fit=crop",
}

// ImageResolver picks the attachment image for a contact/occasion/channel.
// Unlike message resolution an empty result is acceptable: the message is
// then sent without an attachment.
type ImageResolver struct {
	db *gorm.DB
}

func NewImageResolver(db *gorm.DB) *ImageResolver {
	return &ImageResolver{db: db}
}

func (r *ImageResolver) Resolve(contact *models.Contact, occasion, channel string) string {
	var custom models.CustomMessage
	err := r.db.Where("contact_id = ? AND occasion = ? AND channel = ?", contact.ID, occasion, channel).
		First(&custom).Error
	if err == nil && custom.ImageURL != "" {
		return custom.ImageURL
	}

	if url := contactImage(contact, channel); url != "" {
		return url
	}

	var template models.Template
	err = r.db.Where("user_id = ? AND type = ? AND is_default = ?", contact.UserID, channel, true).
		First(&template).Error
	if err == nil {
		if url := templateImage(&template, channel); url != "" {
			return url
		}
	}

	return defaultOccasionImages[occasion]
}

func contactImage(contact *models.Contact, channel string) string {
	if channel == ChannelWhatsApp {
		return contact.WhatsAppImageURL
	}
	return contact.EmailImageURL
}

func templateImage(template *models.Template, channel string) string {
	if channel == ChannelWhatsApp {
		return template.WhatsAppImageURL
	}
	return template.EmailImageURL
}
