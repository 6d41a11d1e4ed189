// controllers/contact.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"remindhub-backend/config"
	"remindhub-backend/models"
	"remindhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateContactInput defines the expected JSON structure for creating a contact
type CreateContactInput struct {
	Name            string     `json:"name" binding:"required"`
	Email           *string    `json:"email"`
	WhatsApp        *string    `json:"whatsapp"`
	Birthday        *time.Time `json:"birthday"`
	AnniversaryDate *time.Time `json:"anniversary_date"`
	MessageTone     *string    `json:"message_tone" binding:"omitempty,oneof=warm professional casual funny"`
}

// UpdateContactInput defines the expected JSON structure for updating a contact
type UpdateContactInput struct {
	Name             *string    `json:"name"`
	Email            *string    `json:"email"`
	WhatsApp         *string    `json:"whatsapp"`
	Birthday         *time.Time `json:"birthday"`
	AnniversaryDate  *time.Time `json:"anniversary_date"`
	MessageTone      *string    `json:"message_tone" binding:"omitempty,oneof=warm professional casual funny"`
	WhatsAppImageURL *string    `json:"whatsapp_image_url"`
	EmailImageURL    *string    `json:"email_image_url"`
	IsActive         *bool      `json:"is_active"`
}

func userUUIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

// CreateContact creates a new contact for the authenticated user
func CreateContact(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	var input CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	contact := models.Contact{
		UserID:          userUUID,
		Name:            input.Name,
		Birthday:        input.Birthday,
		AnniversaryDate: input.AnniversaryDate,
		IsActive:        true,
	}

	if input.Email != nil && *input.Email != "" {
		if !utils.ValidateEmail(*input.Email) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		contact.Email = *input.Email
	}

	if input.WhatsApp != nil && *input.WhatsApp != "" {
		normalized, err := utils.NormalizePhone(*input.WhatsApp)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid WhatsApp number: "+err.Error())
			return
		}
		contact.WhatsApp = normalized
	}

	if contact.Email == "" && contact.WhatsApp == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Either email or WhatsApp number is required")
		return
	}

	if input.MessageTone != nil {
		contact.MessageTone = *input.MessageTone
	}

	if err := config.DB.Create(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContacts retrieves all contacts of the authenticated user
func GetContacts(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	var contacts []models.Contact
	if err := config.DB.Where("user_id = ?", userUUID).Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// GetContact retrieves a specific contact by ID
func GetContact(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var contact models.Contact
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, contactUUID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateContact updates an existing contact
func UpdateContact(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var input UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contact models.Contact
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, contactUUID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email != "" && !utils.ValidateEmail(*input.Email) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		contact.Email = *input.Email
	}
	if input.WhatsApp != nil {
		if *input.WhatsApp == "" {
			contact.WhatsApp = ""
		} else {
			normalized, err := utils.NormalizePhone(*input.WhatsApp)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid WhatsApp number: "+err.Error())
				return
			}
			contact.WhatsApp = normalized
		}
	}
	if input.Birthday != nil {
		contact.Birthday = input.Birthday
	}
	if input.AnniversaryDate != nil {
		contact.AnniversaryDate = input.AnniversaryDate
	}
	if input.MessageTone != nil {
		contact.MessageTone = *input.MessageTone
	}
	if input.WhatsAppImageURL != nil {
		contact.WhatsAppImageURL = *input.WhatsAppImageURL
	}
	if input.EmailImageURL != nil {
		contact.EmailImageURL = *input.EmailImageURL
	}
	if input.IsActive != nil {
		contact.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact deletes a contact and its custom messages
func DeleteContact(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, contactUUID).Delete(&models.Contact{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		return
	}

	config.DB.Where("user_id = ? AND contact_id = ?", userUUID, contactUUID).Delete(&models.CustomMessage{})

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
