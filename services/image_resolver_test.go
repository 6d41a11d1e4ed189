package services

import (
	"testing"

	"remindhub-backend/models"

	"github.com/google/uuid"
)

func TestImageResolutionPriority(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()

	contact := models.Contact{
		UserID:           userID,
		Name:             "Sarah",
		WhatsAppImageURL: "https://example.com/contact-override.jpg",
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatal(err)
	}
	template := models.Template{
		UserID:           userID,
		Name:             "Default WhatsApp",
		Type:             ChannelWhatsApp,
		Content:          "hello",
		IsDefault:        true,
		WhatsAppImageURL: "https://example.com/template-fallback.jpg",
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatal(err)
	}
	custom := models.CustomMessage{
		UserID:    userID,
		ContactID: contact.ID,
		Occasion:  OccasionBirthday,
		Channel:   ChannelWhatsApp,
		Message:   "custom",
		ImageURL:  "https://example.com/custom-image.jpg",
	}
	if err := db.Create(&custom).Error; err != nil {
		t.Fatal(err)
	}

	resolver := NewImageResolver(db)

	// All three tiers present: the custom message image wins.
	got := resolver.Resolve(&contact, OccasionBirthday, ChannelWhatsApp)
	if got != custom.ImageURL {
		t.Errorf("Resolve = %q, want the custom message image", got)
	}

	// Without the custom message the contact override wins.
	if err := db.Unscoped().Delete(&custom).Error; err != nil {
		t.Fatal(err)
	}
	got = resolver.Resolve(&contact, OccasionBirthday, ChannelWhatsApp)
	if got != contact.WhatsAppImageURL {
		t.Errorf("Resolve = %q, want the contact override image", got)
	}

	// Without the override the default template image wins.
	contact.WhatsAppImageURL = ""
	got = resolver.Resolve(&contact, OccasionBirthday, ChannelWhatsApp)
	if got != template.WhatsAppImageURL {
		t.Errorf("Resolve = %q, want the template image", got)
	}
}

func TestImageResolutionBuiltInDefault(t *testing.T) {
	db := newTestDB(t)

	contact := models.Contact{UserID: uuid.New(), Name: "Sarah"}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatal(err)
	}

	resolver := NewImageResolver(db)

	got := resolver.Resolve(&contact, OccasionBirthday, ChannelWhatsApp)
	if got != defaultOccasionImages[OccasionBirthday] {
		t.Errorf("Resolve = %q, want the built-in birthday image", got)
	}

	got = resolver.Resolve(&contact, OccasionAnniversary, ChannelEmail)
	if got != defaultOccasionImages[OccasionAnniversary] {
		t.Errorf("Resolve = %q, want the built-in anniversary image", got)
	}

	// Unknown occasions have no built-in image; empty means send without one.
	if got := resolver.Resolve(&contact, "graduation", ChannelEmail); got != "" {
		t.Errorf("Resolve = %q, want empty", got)
	}
}

func TestImageResolutionPerChannel(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()

	contact := models.Contact{
		UserID:        userID,
		Name:          "Sarah",
		EmailImageURL: "https://example.com/email-override.jpg",
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatal(err)
	}

	resolver := NewImageResolver(db)

	// The email override must not leak into whatsapp resolution.
	if got := resolver.Resolve(&contact, OccasionBirthday, ChannelEmail); got != contact.EmailImageURL {
		t.Errorf("email Resolve = %q, want the email override", got)
	}
	if got := resolver.Resolve(&contact, OccasionBirthday, ChannelWhatsApp); got != defaultOccasionImages[OccasionBirthday] {
		t.Errorf("whatsapp Resolve = %q, want the built-in default", got)
	}
}
