package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yshmodi/eiregate/config"
)

const defaultChatMaxTokens = 4096

// ChatProvider is a provider variant speaking the OpenAI-compatible
// chat-completions wire format. OpenRouter, Mistral and the HuggingFace
// router all expose this shape, so one adapter covers the three of them.
type ChatProvider struct {
	name       string
	priority   int
	cfg        config.ProviderConfig
	maxTokens  int
	headers    map[string]string
	httpClient *http.Client
}

// NewOpenRouterProvider creates the OpenRouter variant (priority 2)
func NewOpenRouterProvider(cfg config.ProviderConfig) *ChatProvider {
	return newChatProvider("OpenRouter", 2, cfg, defaultChatMaxTokens, map[string]string{
		"HTTP-Referer": "https://eiregate.app",
		"X-Title":      "EireGate",
	})
}

// NewMistralProvider creates the Mistral variant (priority 3)
func NewMistralProvider(cfg config.ProviderConfig) *ChatProvider {
	return newChatProvider("Mistral", 3, cfg, defaultChatMaxTokens, nil)
}

// NewHuggingFaceProvider creates the HuggingFace variant (priority 4).
// The serverless router enforces a smaller completion budget.
func NewHuggingFaceProvider(cfg config.ProviderConfig) *ChatProvider {
	return newChatProvider("HuggingFace", 4, cfg, 2048, nil)
}

func newChatProvider(name string, priority int, cfg config.ProviderConfig, maxTokens int, headers map[string]string) *ChatProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ChatProvider{
		name:      name,
		priority:  priority,
		cfg:       cfg,
		maxTokens: maxTokens,
		headers:   headers,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (p *ChatProvider) Name() string {
	return p.name
}

// Priority returns the fallback priority
func (p *ChatProvider) Priority() int {
	return p.priority
}

// Available reports whether the API key is configured
func (p *ChatProvider) Available() bool {
	return p.cfg.APIKey != ""
}

// Invoke performs one chat completion call
func (p *ChatProvider) Invoke(ctx context.Context, req *Request) (string, error) {
	chatReq := p.buildChatRequest(req)

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions", strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.name, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	for k, v := range p.headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: http request failed: %w", p.name, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", p.name, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", p.errorFromResponse(httpResp.StatusCode, respBody)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%s: unmarshal response: %w", p.name, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s: response contained no choices", p.name)
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s: response contained empty content", p.name)
	}
	return content, nil
}

// buildChatRequest converts the unified request to the wire format
func (p *ChatProvider) buildChatRequest(req *Request) *chatCompletionRequest {
	system := req.System

	chatReq := &chatCompletionRequest{
		Model:       p.cfg.Model,
		Temperature: req.Temperature,
		MaxTokens:   p.maxTokens,
	}

	if req.Schema != nil {
		// JSON mode plus the schema spelled out in the system message; the
		// schema-aware response_format variants are not uniformly supported
		// across these backends.
		chatReq.ResponseFormat = &responseFormat{Type: "json_object"}
		system = withSchemaInstruction(system, req.Schema)
	}

	if system != "" {
		chatReq.Messages = append(chatReq.Messages, chatMessage{Role: "system", Content: system})
	}
	chatReq.Messages = append(chatReq.Messages, chatMessage{Role: "user", Content: req.Prompt})

	return chatReq
}

// errorFromResponse surfaces the upstream status and message so the failure
// classifier can sniff rate-limit signals out of it
func (p *ChatProvider) errorFromResponse(statusCode int, body []byte) error {
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("%s: status %d: %s", p.name, statusCode, errResp.Error.Message)
	}
	return fmt.Errorf("%s: status %d: %s", p.name, statusCode, strings.TrimSpace(string(body)))
}

// Wire types (OpenAI-compatible)

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatErrorResponse struct {
	Error chatError `json:"error"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}
