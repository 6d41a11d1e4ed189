package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"remindhub-backend/models"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"

	ProviderMeta       = "meta"
	ProviderDigitalSMS = "digitalsms"
	ProviderTwilio     = "twilio"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the normalized outcome of one provider call. Provider responses
// are heterogeneous; every sender classifies them into exactly this shape and
// never lets a raw provider error escape.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

func successResult(message string) Result {
	return Result{Status: StatusSuccess, Message: message}
}

func errorResult(format string, args ...interface{}) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// WhatsAppSender dispatches one WhatsApp message to a normalized 10-digit
// number. imageURL may be empty.
type WhatsAppSender interface {
	Send(ctx context.Context, to, text, imageURL string) Result
}

// EmailSender dispatches one transactional email.
type EmailSender interface {
	Send(ctx context.Context, fromEmail, fromName, to, toName, subject, htmlBody string) Result
}

// Every provider call gets a bounded timeout so an upstream hang cannot
// stall the whole batch.
var deliveryClient = &http.Client{Timeout: 30 * time.Second}

// WhatsAppSenderFor selects the provider strategy stored in the user's
// settings. Missing credentials are a configuration error detected before
// any network call.
func WhatsAppSenderFor(settings *models.UserSettings) (WhatsAppSender, error) {
	switch settings.WhatsAppProvider {
	case ProviderMeta:
		if settings.MetaPhoneNumberID == "" || settings.MetaAccessToken == "" {
			return nil, fmt.Errorf("meta provider not configured: missing phone number ID or access token")
		}
		return &MetaSender{
			PhoneNumberID: settings.MetaPhoneNumberID,
			AccessToken:   settings.MetaAccessToken,
			Client:        deliveryClient,
		}, nil
	case ProviderDigitalSMS:
		if settings.DigitalSMSAPIKey == "" {
			return nil, fmt.Errorf("digitalsms provider not configured: missing API key")
		}
		return &DigitalSMSSender{
			APIKey: settings.DigitalSMSAPIKey,
			Client: deliveryClient,
		}, nil
	case ProviderTwilio:
		if settings.TwilioAccountSID == "" || settings.TwilioAuthToken == "" || settings.TwilioFromNumber == "" {
			return nil, fmt.Errorf("twilio provider not configured: missing SID, token or from number")
		}
		return NewTwilioSender(settings.TwilioAccountSID, settings.TwilioAuthToken, settings.TwilioFromNumber), nil
	default:
		return nil, fmt.Errorf("unknown whatsapp provider: %q", settings.WhatsAppProvider)
	}
}

// EmailSenderFor builds the transactional email client from the user's
// settings.
func EmailSenderFor(settings *models.UserSettings) (EmailSender, error) {
	if settings.EmailAPIKey == "" {
		return nil, fmt.Errorf("email provider not configured: missing API key")
	}
	if settings.SenderEmail == "" {
		return nil, fmt.Errorf("email provider not configured: missing sender address")
	}
	return &BrevoSender{
		APIKey: settings.EmailAPIKey,
		Client: deliveryClient,
	}, nil
}
