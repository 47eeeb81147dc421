// Package llm talks to the external grading service: it assembles the
// instruction prompt, performs the chat-completion exchange and parses the
// structured judgment out of the raw response.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arkanhadi/ragrader/internal/logger"
)

// emptyResponse is the placeholder a failed service call degrades to. It
// flows into the parser, which turns it into an empty result carrying an
// error description, so a single document's failure never crashes a batch.
const emptyResponse = "{}"

// systemPrompt pins the service into JSON-only output. Part of the wire
// contract; models are tuned against this exact text.
const systemPrompt = "Kamu adalah sistem penilai otomatis. Jawab hanya dalam format JSON."

// OpenRouterService implements core.GradingService against an
// OpenRouter-compatible chat-completions endpoint.
type OpenRouterService struct {
	apiKey      string
	url         string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOpenRouterService creates a grading client. Temperature is pinned to 0
// by the caller for deterministic sampling.
func NewOpenRouterService(apiKey, url, model string, temperature float64) *OpenRouterService {
	return &OpenRouterService{
		apiKey:      apiKey,
		url:         url,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Generous bound for long judgments
		},
	}
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completion API.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// APIError represents an error response envelope from the service.
type APIError struct {
	Error struct {
		Message  string `json:"message"`
		Code     int    `json:"code"`
		Metadata struct {
			Raw          string `json:"raw"`
			ProviderName string `json:"provider_name"`
		} `json:"metadata"`
	} `json:"error"`
}

// Grade sends one non-conversational grading request and returns the raw
// response text. Every transport failure is absorbed here and degrades to an
// empty-object placeholder.
func (s *OpenRouterService) Grade(ctx context.Context, prompt string) string {
	response, err := s.chatCompletion(ctx, prompt)
	if err != nil {
		logger.LLMError("Grading call failed: %v", err)
		return emptyResponse
	}
	return response
}

// chatCompletion performs the actual exchange.
func (s *OpenRouterService) chatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	logger.LLMInfo("Sending grading request to '%s' (%d prompt characters)", s.model, len(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	// The service reports some errors with a 200 status, so probe the error
	// envelope regardless of status code.
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		if apiErr.Error.Metadata.ProviderName != "" {
			return "", fmt.Errorf("API error (%s): %s", apiErr.Error.Metadata.ProviderName, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error: %s (code: %d)", apiErr.Error.Message, apiErr.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API HTTP error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			FinishReason string  `json:"finish_reason"`
			Message      Message `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage,omitempty"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("API returned no choices")
	}

	if completion.Usage.TotalTokens > 0 {
		logger.LLMInfo("Usage - Prompt: %d, Completion: %d, Total: %d tokens. Finish Reason: %s",
			completion.Usage.PromptTokens,
			completion.Usage.CompletionTokens,
			completion.Usage.TotalTokens,
			completion.Choices[0].FinishReason,
		)
	}

	content := completion.Choices[0].Message.Content
	logger.LLMDebug("Received response, length: %d characters", len(content))
	return content, nil
}
