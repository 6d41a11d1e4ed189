package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

const brevoBaseURL = "https://api.brevo.com/v3"

// BrevoSender sends transactional email through the Brevo HTTP API.
type BrevoSender struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

type brevoParty struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoEmailRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

type brevoEmailResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (s *BrevoSender) Send(ctx context.Context, fromEmail, fromName, to, toName, subject, htmlBody string) Result {
	body, err := json.Marshal(brevoEmailRequest{
		Sender:      brevoParty{Email: fromEmail, Name: fromName},
		To:          []brevoParty{{Email: to, Name: toName}},
		Subject:     subject,
		HTMLContent: htmlBody,
	})
	if err != nil {
		return errorResult("email: encode request: %v", err)
	}

	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = brevoBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return errorResult("email: build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return errorResult("email: request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errorResult("email: read response: %v", err)
	}

	var parsed brevoEmailResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Message != "" {
			return errorResult("email: %s (%s)", parsed.Message, parsed.Code)
		}
		return errorResult("email: request failed with status %d", resp.StatusCode)
	}
	return successResult("message ID " + parsed.MessageID)
}
