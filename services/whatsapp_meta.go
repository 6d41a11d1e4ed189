package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const metaGraphBaseURL = "https://graph.facebook.com/v18.0"

// MetaSender sends through the WhatsApp Cloud API: one endpoint per phone
// number ID, bearer-token auth, JSON request and response.
type MetaSender struct {
	PhoneNumberID string
	AccessToken   string
	BaseURL       string // defaults to the graph API
	Client        *http.Client
}

type metaMessageRequest struct {
	MessagingProduct string     `json:"messaging_product"`
	To               string     `json:"to"`
	Type             string     `json:"type"`
	Text             *metaText  `json:"text,omitempty"`
	Image            *metaImage `json:"image,omitempty"`
}

type metaText struct {
	Body string `json:"body"`
}

type metaImage struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type metaMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (s *MetaSender) Send(ctx context.Context, to, text, imageURL string) Result {
	payload := metaMessageRequest{
		MessagingProduct: "whatsapp",
		To:               "91" + to,
	}
	if imageURL != "" {
		payload.Type = "image"
		payload.Image = &metaImage{Link: imageURL, Caption: text}
	} else {
		payload.Type = "text"
		payload.Text = &metaText{Body: text}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errorResult("meta: encode request: %v", err)
	}

	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = metaGraphBaseURL
	}
	url := fmt.Sprintf("%s/%s/messages", baseURL, s.PhoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errorResult("meta: build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)

	resp, err := s.Client.Do(req)
	if err != nil {
		return errorResult("meta: request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errorResult("meta: read response: %v", err)
	}

	var parsed metaMessageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return errorResult("meta: malformed response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Error != nil {
			return errorResult("meta: %s (code %d)", parsed.Error.Message, parsed.Error.Code)
		}
		return errorResult("meta: request failed with status %d", resp.StatusCode)
	}

	if len(parsed.Messages) == 0 {
		return errorResult("meta: no message ID in response")
	}
	return successResult("message ID " + parsed.Messages[0].ID)
}
