// controllers/message.go
package controllers

import (
	"log"
	"net/http"

	"remindhub-backend/services"
	"remindhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// GenerateMessageInput defines the expected JSON structure
type GenerateMessageInput struct {
	ContactName  string `json:"contact_name" binding:"required"`
	Occasion     string `json:"occasion" binding:"required,oneof=birthday anniversary"`
	Relationship string `json:"relationship"`
	Tone         string `json:"tone" binding:"omitempty,oneof=warm professional casual funny"`
}

// MessageController exposes the text generator directly so the frontend can
// preview messages.
type MessageController struct {
	Generator services.MessageGenerator
}

// GenerateMessage returns generated greeting text, falling back to the static
// table when generation fails. It always answers 200 with usable text.
func (mc *MessageController) GenerateMessage(c *gin.Context) {
	var input GenerateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Relationship == "" {
		input.Relationship = "friend"
	}
	if input.Tone == "" {
		input.Tone = "warm"
	}

	if mc.Generator != nil {
		text, err := mc.Generator.Generate(c.Request.Context(), input.ContactName, input.Occasion,
			input.Relationship, input.Tone)
		if err == nil && text != "" {
			c.JSON(http.StatusOK, gin.H{"message": text})
			return
		}
		if err != nil {
			log.Printf("Error generating message: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": services.FallbackMessage(input.ContactName, input.Occasion, input.Tone),
	})
}
