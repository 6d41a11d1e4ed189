// controllers/settings.go
package controllers

import (
	"net/http"
	"time"

	"remindhub-backend/config"
	"remindhub-backend/models"
	"remindhub-backend/services"
	"remindhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateSettingsInput defines the expected JSON structure
type UpdateSettingsInput struct {
	Timezone      *string `json:"timezone"`
	DailySendTime *string `json:"daily_send_time"`

	WhatsAppProvider *string `json:"whatsapp_provider" binding:"omitempty,oneof=meta digitalsms twilio"`

	MetaPhoneNumberID *string `json:"meta_phone_number_id"`
	MetaAccessToken   *string `json:"meta_access_token"`
	DigitalSMSAPIKey  *string `json:"digitalsms_api_key"`
	DigitalSMSSender  *string `json:"digitalsms_sender"`
	TwilioAccountSID  *string `json:"twilio_account_sid"`
	TwilioAuthToken   *string `json:"twilio_auth_token"`
	TwilioFromNumber  *string `json:"twilio_from_number"`

	EmailAPIKey *string `json:"email_api_key"`
	SenderEmail *string `json:"sender_email"`
	SenderName  *string `json:"sender_name"`

	SendReport *bool `json:"send_report"`
}

func loadSettings(c *gin.Context) (*models.UserSettings, bool) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return nil, false
	}

	// Created lazily with defaults on first read
	settings := models.UserSettings{UserID: userUUID}
	err := config.DB.Where("user_id = ?", userUUID).
		Attrs(models.UserSettings{Timezone: "UTC", DailySendTime: "09:00", WhatsAppProvider: services.ProviderMeta}).
		FirstOrCreate(&settings).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return nil, false
	}
	return &settings, true
}

// GetSettings returns the caller's settings, creating defaults on first read
func GetSettings(c *gin.Context) {
	settings, ok := loadSettings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings updates the caller's delivery configuration
func UpdateSettings(c *gin.Context) {
	settings, ok := loadSettings(c)
	if !ok {
		return
	}

	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid timezone identifier")
			return
		}
		settings.Timezone = *input.Timezone
	}
	if input.DailySendTime != nil {
		if !utils.ValidateSendTime(*input.DailySendTime) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid send time, expected HH:MM")
			return
		}
		settings.DailySendTime = *input.DailySendTime
	}
	if input.WhatsAppProvider != nil {
		settings.WhatsAppProvider = *input.WhatsAppProvider
	}
	if input.MetaPhoneNumberID != nil {
		settings.MetaPhoneNumberID = *input.MetaPhoneNumberID
	}
	if input.MetaAccessToken != nil {
		settings.MetaAccessToken = *input.MetaAccessToken
	}
	if input.DigitalSMSAPIKey != nil {
		settings.DigitalSMSAPIKey = *input.DigitalSMSAPIKey
	}
	if input.DigitalSMSSender != nil {
		settings.DigitalSMSSender = *input.DigitalSMSSender
	}
	if input.TwilioAccountSID != nil {
		settings.TwilioAccountSID = *input.TwilioAccountSID
	}
	if input.TwilioAuthToken != nil {
		settings.TwilioAuthToken = *input.TwilioAuthToken
	}
	if input.TwilioFromNumber != nil {
		settings.TwilioFromNumber = *input.TwilioFromNumber
	}
	if input.EmailAPIKey != nil {
		settings.EmailAPIKey = *input.EmailAPIKey
	}
	if input.SenderEmail != nil {
		if *input.SenderEmail != "" && !utils.ValidateEmail(*input.SenderEmail) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid sender email")
			return
		}
		settings.SenderEmail = *input.SenderEmail
	}
	if input.SenderName != nil {
		settings.SenderName = *input.SenderName
	}
	if input.SendReport != nil {
		settings.SendReport = *input.SendReport
	}

	if err := config.DB.Save(settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
