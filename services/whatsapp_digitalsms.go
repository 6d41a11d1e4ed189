package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const digitalSMSBaseURL = "https://demo.digitalsms.biz/api"

// DigitalSMSSender sends through the DigitalSMS WhatsApp API: a single GET
// endpoint with the API key and message as query parameters. Responses are
// sometimes JSON and sometimes free text, so classification tries both.
type DigitalSMSSender struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

type digitalSMSResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *DigitalSMSSender) Send(ctx context.Context, to, text, imageURL string) Result {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = digitalSMSBaseURL
	}

	params := url.Values{}
	params.Set("apikey", s.APIKey)
	params.Set("mobile", to)
	params.Set("msg", text)
	if imageURL != "" {
		params.Set("img1", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return errorResult("digitalsms: build request: %v", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return errorResult("digitalsms: request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errorResult("digitalsms: read response: %v", err)
	}
	body := strings.TrimSpace(string(raw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorResult("digitalsms: status %d: %s", resp.StatusCode, body)
	}

	var parsed digitalSMSResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Status != "" {
		if strings.EqualFold(parsed.Status, "success") {
			return successResult(parsed.Message)
		}
		return errorResult("digitalsms: %s: %s", parsed.Status, parsed.Message)
	}

	// Free-text response; the provider reports failures in the body with a
	// 200 status.
	lower := strings.ToLower(body)
	if strings.Contains(lower, "success") {
		return successResult(body)
	}
	return errorResult("digitalsms: %s", body)
}
