package resume

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
	"github.com/yshmodi/eiregate/services/llm"
)

const extractionSystemPrompt = `You are a precise resume parser that extracts structured data from raw resume text.
From the raw text (often noisy from PDF extraction), extract structured data into the Resume schema.

Rules:
- Clean typos, fix formatting (e.g., "AngualrJS" → "AngularJS", "RESTful" → "RESTful").
- Categorize skills logically (e.g., "Programming Languages", "Frameworks", "Cloud/DevOps", "Soft Skills").
- Infer education level: assign nfq_level 10 for PhD, 9 for Master's, 8 for Bachelor's.
- Keep bullets/achievements as-is but clean language.
- Output ONLY valid JSON matching the schema — no explanations.`

// Invoker is the slice of the LLM fallback invoker the resume services need
type Invoker interface {
	InvokeStructured(ctx context.Context, req *llm.Request, out interface{}) (string, error)
}

// Parser turns raw resume text into a structured Resume
type Parser struct {
	invoker Invoker
	logger  *zap.Logger
}

// NewParser creates a resume parser backed by the fallback invoker
func NewParser(invoker Invoker, logger *zap.Logger) *Parser {
	return &Parser{
		invoker: invoker,
		logger:  logger,
	}
}

// Parse extracts a structured Resume from raw text. Returns the parsed resume
// and the name of the provider that served the call.
func (p *Parser) Parse(ctx context.Context, rawText string) (*Resume, string, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, "", services.ErrEmptyText
	}

	req := &llm.Request{
		System:      extractionSystemPrompt,
		Prompt:      fmt.Sprintf("Raw resume text:\n%s\n\nParse into structured Resume.", rawText),
		Schema:      ResumeSchema(),
		Temperature: 0.1,
	}

	var parsed Resume
	provider, err := p.invoker.InvokeStructured(ctx, req, &parsed)
	if err != nil {
		return nil, "", err
	}

	p.logger.Info("resume parsed",
		zap.String("provider", provider),
		zap.String("name", parsed.Name),
		zap.Int("skill_categories", len(parsed.Skills)))

	return &parsed, provider, nil
}
