// controllers/custom_message.go
package controllers

import (
	"errors"
	"net/http"

	"remindhub-backend/config"
	"remindhub-backend/models"
	"remindhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpsertCustomMessageInput defines the expected JSON structure
type UpsertCustomMessageInput struct {
	ContactID string `json:"contact_id" binding:"required"`
	Occasion  string `json:"occasion" binding:"required,oneof=birthday anniversary"`
	Channel   string `json:"channel" binding:"required,oneof=whatsapp email"`
	Message   string `json:"message" binding:"required"`
	ImageURL  string `json:"image_url"`
}

// UpsertCustomMessage creates or replaces the custom message for one
// (contact, occasion, channel) key
func UpsertCustomMessage(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	var input UpsertCustomMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	contactUUID, err := uuid.Parse(input.ContactID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	// Contact must belong to the caller
	var contact models.Contact
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, contactUUID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var custom models.CustomMessage
	err = config.DB.Where("contact_id = ? AND occasion = ? AND channel = ?",
		contactUUID, input.Occasion, input.Channel).First(&custom).Error
	switch {
	case err == nil:
		custom.Message = input.Message
		custom.ImageURL = input.ImageURL
		if err := config.DB.Save(&custom).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update custom message")
			return
		}
		c.JSON(http.StatusOK, custom)
	case errors.Is(err, gorm.ErrRecordNotFound):
		custom = models.CustomMessage{
			UserID:    userUUID,
			ContactID: contactUUID,
			Occasion:  input.Occasion,
			Channel:   input.Channel,
			Message:   input.Message,
			ImageURL:  input.ImageURL,
		}
		if err := config.DB.Create(&custom).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create custom message")
			return
		}
		c.JSON(http.StatusCreated, custom)
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// GetCustomMessages lists all custom messages for a contact
func GetCustomMessages(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var messages []models.CustomMessage
	if err := config.DB.Where("user_id = ? AND contact_id = ?", userUUID, contactUUID).
		Find(&messages).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve custom messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetCustomMessage fetches the custom message for one (contact, occasion, channel) key
func GetCustomMessage(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var custom models.CustomMessage
	err = config.DB.Where("user_id = ? AND contact_id = ? AND occasion = ? AND channel = ?",
		userUUID, contactUUID, c.Param("occasion"), c.Param("channel")).First(&custom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Custom message not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, custom)
}

// DeleteCustomMessage removes one custom message by ID
func DeleteCustomMessage(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	messageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid message ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, messageUUID).Delete(&models.CustomMessage{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete custom message")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Custom message not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Custom message deleted successfully"})
}
