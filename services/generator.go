package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// MessageGenerator produces occasion greeting text. Implementations are
// fallible; callers must fall back to static text on error.
type MessageGenerator interface {
	Generate(ctx context.Context, contactName, occasion, relationship, tone string) (string, error)
}

const generatorSystemMessage = "You are a helpful assistant that generates personalized birthday and anniversary messages. " +
	"Create warm, heartfelt messages that are appropriate for the occasion and relationship."

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func NewOpenAIGenerator() *OpenAIGenerator {
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o"
	}
	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGenerator{
		APIKey:  os.Getenv("LLM_API_KEY"),
		Model:   model,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, contactName, occasion, relationship, tone string) (string, error) {
	if g.APIKey == "" {
		return "", errors.New("LLM_API_KEY not set")
	}

	prompt := fmt.Sprintf("Generate a %s %s message for %s. ", tone, occasion, contactName)
	prompt += fmt.Sprintf("The relationship is: %s. ", relationship)
	prompt += "Make it personal, heartfelt, and appropriate for the occasion. "
	prompt += "Keep it between 50-150 words. Do not include any greeting like 'Dear' or signature."

	body, err := json.Marshal(chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorSystemMessage},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("malformed generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("generation failed: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("generation failed with status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("generation returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("generation returned empty text")
	}
	return text, nil
}
