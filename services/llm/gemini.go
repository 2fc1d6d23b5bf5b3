package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yshmodi/eiregate/config"
	"google.golang.org/genai"
)

const geminiMaxOutputTokens = 4096

// GeminiProvider calls the Gemini API. Primary backend (priority 1).
type GeminiProvider struct {
	cfg config.ProviderConfig

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiProvider creates the Gemini provider variant. The underlying client
// is created lazily on first use so construction never needs a context.
func NewGeminiProvider(cfg config.ProviderConfig) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "Gemini"
}

// Priority returns the fallback priority
func (p *GeminiProvider) Priority() int {
	return 1
}

// Available reports whether GOOGLE_API_KEY is configured
func (p *GeminiProvider) Available() bool {
	return p.cfg.APIKey != ""
}

// Invoke performs one Gemini generation call
func (p *GeminiProvider) Invoke(ctx context.Context, req *Request) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	temperature := float32(req.Temperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: geminiMaxOutputTokens,
	}

	system := req.System
	if req.Schema != nil {
		genCfg.ResponseMIMEType = "application/json"
		system = withSchemaInstruction(system, req.Schema)
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return text, nil
}

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return p.client, p.initErr
}

// collectText concatenates the textual parts of every candidate
func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

// withSchemaInstruction appends the schema contract to the system instruction
func withSchemaInstruction(system string, schema *Schema) string {
	def, _ := json.Marshal(schema.Definition)
	instruction := fmt.Sprintf(
		"Respond ONLY with a JSON object matching the %s schema:\n%s",
		schema.Name, string(def))
	if system == "" {
		return instruction
	}
	return system + "\n\n" + instruction
}
