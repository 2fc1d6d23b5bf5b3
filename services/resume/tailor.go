package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services/llm"
)

const tailoringSystemPrompt = `You are an expert tech recruiter helping candidates tailor resumes for specific job applications.

Given the parsed resume and job description, produce:
- Professional summary: concise, keyword-rich, tailored to the specific role and company. Highlight relevant experience and skills.
- 5-7 achievement bullets: start with strong action verbs, preserve metrics from original resume, weave in keywords from the JD.
- Key skills: top 10-15, re-ranked and prioritized based on the job requirements.

Focus ONLY on skills, experience, and achievements. No visa, work authorization, or immigration mentions.

Output ONLY valid structured JSON — no extra text.`

const genericJobDescription = "No specific job description provided. Tailor for the target role generically."

// Tailor rewrites parsed resumes against a target role and job description
type Tailor struct {
	invoker Invoker
	logger  *zap.Logger
}

// NewTailor creates a resume tailor backed by the fallback invoker
func NewTailor(invoker Invoker, logger *zap.Logger) *Tailor {
	return &Tailor{
		invoker: invoker,
		logger:  logger,
	}
}

// TailorRequest carries the inputs of one tailoring pass
type TailorRequest struct {
	Parsed        *Resume
	TargetRole    string
	TargetCompany string
	JDText        string
}

// Run produces the tailored rewrite. Returns the tailored resume and the name
// of the provider that served the call.
func (t *Tailor) Run(ctx context.Context, req TailorRequest) (*TailoredResume, string, error) {
	jdText := strings.TrimSpace(req.JDText)
	if jdText == "" {
		jdText = genericJobDescription
	}

	parsedJSON, err := json.Marshal(req.Parsed)
	if err != nil {
		return nil, "", fmt.Errorf("marshal parsed resume: %w", err)
	}

	prompt := fmt.Sprintf(`Parsed resume: %s

Job Description:
%s

Target role: %s
Target company: %s

Tailor the resume to match this job.`, string(parsedJSON), jdText, req.TargetRole, req.TargetCompany)

	llmReq := &llm.Request{
		System:      tailoringSystemPrompt,
		Prompt:      prompt,
		Schema:      TailoredResumeSchema(),
		Temperature: 0.1,
	}

	var tailored TailoredResume
	provider, err := t.invoker.InvokeStructured(ctx, llmReq, &tailored)
	if err != nil {
		return nil, "", err
	}

	t.logger.Info("resume tailored",
		zap.String("provider", provider),
		zap.String("target_role", req.TargetRole),
		zap.Int("key_skills", len(tailored.KeySkills)))

	return &tailored, provider, nil
}

// MatchScore estimates skill alignment 0-100 between the original resume and
// the tailored key skills. Matching is fuzzy bidirectional substring on
// lowercased trimmed skills, so "AWS (API Gateway, Lambda)" matches "AWS".
// Either side empty scores a neutral 50.0.
func MatchScore(resumeSkills []SkillCategory, tailoredSkills []string) float64 {
	if len(resumeSkills) == 0 || len(tailoredSkills) == 0 {
		return 50.0
	}

	resumeItems := make(map[string]struct{})
	for _, cat := range resumeSkills {
		for _, item := range cat.Items {
			resumeItems[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
		}
	}

	matched := 0
	for _, skill := range tailoredSkills {
		tailoredLower := strings.ToLower(strings.TrimSpace(skill))
		for resumeSkill := range resumeItems {
			if strings.Contains(tailoredLower, resumeSkill) || strings.Contains(resumeSkill, tailoredLower) {
				matched++
				break
			}
		}
	}

	score := float64(matched) / float64(len(tailoredSkills)) * 100
	if score > 100.0 {
		score = 100.0
	}
	return score
}

// VisaAdvice derives Irish Stamp 1G guidance from the education history:
// NFQ 9+ earns a 24-month permission, NFQ 8 a 12-month one, anything lower a
// warning. Thresholds are the 2025 Critical Skills Employment Permit bands.
func VisaAdvice(education []EducationEntry) string {
	if len(education) == 0 {
		return "⚠️ Verify education details for Stamp 1G eligibility."
	}

	maxNFQ := 0
	gradYear := 0
	for _, edu := range education {
		if edu.NFQLevel > maxNFQ {
			maxNFQ = edu.NFQLevel
		}
		if year := parseGradYear(edu.Year); year > gradYear {
			gradYear = year
		}
	}

	isRecent := gradYear >= time.Now().Year()-1

	var months int
	var threshold string
	switch {
	case maxNFQ >= 9:
		months = 24
		threshold = "€36,848 (Graduate Band – recent grads) or €40,904 (standard)"
	case maxNFQ == 8:
		months = 12
		threshold = "€34,009 (Graduate Band) or €36,605 (standard)"
	default:
		return "⚠️ Stamp 1G typically requires NFQ Level 8+ (Honours Bachelor or higher)."
	}

	band := "standard"
	if isRecent {
		band = "recent graduate"
	}
	return fmt.Sprintf("✅ Eligible for **%d-month Stamp 1G** (%s). CSEP threshold: %s.", months, band, threshold)
}

// parseGradYear pulls the trailing year out of strings like "2025" or
// "2020 - 2024"
func parseGradYear(year string) int {
	parts := strings.Split(year, "-")
	last := strings.TrimSpace(parts[len(parts)-1])
	parsed, err := strconv.Atoi(last)
	if err != nil {
		return 0
	}
	return parsed
}
