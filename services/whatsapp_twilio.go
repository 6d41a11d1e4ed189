package services

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends WhatsApp messages through the Twilio messaging API.
type TwilioSender struct {
	FromNumber string
	client     *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		FromNumber: fromNumber,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

func (s *TwilioSender) Send(ctx context.Context, to, text, imageURL string) Result {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+91" + to)
	params.SetFrom("whatsapp:" + s.FromNumber)
	params.SetBody(text)
	if imageURL != "" {
		params.SetMediaUrl([]string{imageURL})
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return errorResult("twilio: %v", err)
	}
	if resp.Sid == nil {
		return errorResult("twilio: no SID returned")
	}
	return successResult("SID " + *resp.Sid)
}
