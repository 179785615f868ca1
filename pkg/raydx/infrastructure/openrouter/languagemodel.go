package openrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"raydx.com/raydx/pkg/raydx/domain"
)

const (
	DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel    = "deepseek/deepseek-chat"

	// A hung remote call must never stall the pipeline: the whole request is bounded by this
	// timeout and there is no retry.
	requestTimeout = 30 * time.Second

	systemPrompt = "You are an experienced radiologist. Produce professional, precise medical reports."
)

// LanguageModel a chat-completions client for the remote report model.
type LanguageModel struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func NewLanguageModel(apiKey, model, endpoint string) *LanguageModel {
	return &LanguageModel{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (l *LanguageModel) Name() string {
	return l.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (l *LanguageModel) Complete(prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	request, err := http.NewRequest(http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+l.apiKey)
	request.Header.Set("Content-Type", "application/json")
	response, err := l.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", l.endpoint, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d from %s", response.StatusCode, l.endpoint)
	}
	output, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(output, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ domain.LanguageModel = (*LanguageModel)(nil)
