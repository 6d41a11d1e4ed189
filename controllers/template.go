// controllers/template.go
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

// CreateTemplateInput defines the expected JSON structure
type CreateTemplateInput struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type" binding:"required,oneof=whatsapp email"`
	Subject          string `json:"subject"`
	Content          string `json:"content" binding:"required"`
	IsDefault        bool   `json:"is_default"`
	WhatsAppImageURL string `json:"whatsapp_image_url"`
	EmailImageURL    string `json:"email_image_url"`
}

// UpdateTemplateInput defines the expected JSON structure
type UpdateTemplateInput struct {
	Name             *string `json:"name"`
	Subject          *string `json:"subject"`
	Content          *string `json:"content"`
	IsDefault        *bool   `json:"is_default"`
	WhatsAppImageURL *string `json:"whatsapp_image_url"`
	EmailImageURL    *string `json:"email_image_url"`
}

// CreateTemplate creates a new message template
func CreateTemplate(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	var input CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	template := models.Template{
		UserID:           userUUID,
		Name:             input.Name,
		Type:             input.Type,
		Subject:          input.Subject,
		Content:          input.Content,
		IsDefault:        input.IsDefault,
		WhatsAppImageURL: input.WhatsAppImageURL,
		EmailImageURL:    input.EmailImageURL,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if template.IsDefault {
			// Only one default per (user, type)
			if err := tx.Model(&models.Template{}).
				Where("user_id = ? AND type = ?", userUUID, input.Type).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&template).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetTemplates retrieves all templates of the authenticated user
func GetTemplates(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var templates []models.Template
	if err := query.Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// UpdateTemplate updates an existing template
func UpdateTemplate(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var input UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.Template
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, templateUUID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Subject != nil {
		template.Subject = *input.Subject
	}
	if input.Content != nil {
		template.Content = *input.Content
	}
	if input.WhatsAppImageURL != nil {
		template.WhatsAppImageURL = *input.WhatsAppImageURL
	}
	if input.EmailImageURL != nil {
		template.EmailImageURL = *input.EmailImageURL
	}
	if input.IsDefault != nil {
		template.IsDefault = *input.IsDefault
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if template.IsDefault {
			if err := tx.Model(&models.Template{}).
				Where("user_id = ? AND type = ? AND id <> ?", userUUID, template.Type, template.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&template).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteTemplate deletes a template
func DeleteTemplate(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, templateUUID).Delete(&models.Template{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}
