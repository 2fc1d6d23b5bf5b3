package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
	"github.com/yshmodi/eiregate/services/extract"
	"github.com/yshmodi/eiregate/services/pipeline"
	"github.com/yshmodi/eiregate/services/resume"
)

type stubResumeParser struct {
	parsed *resume.Resume
	err    error
	calls  int
}

func (s *stubResumeParser) Parse(ctx context.Context, rawText string) (*resume.Resume, string, error) {
	s.calls++
	if s.err != nil {
		return nil, "", s.err
	}
	return s.parsed, "gemini", nil
}

type stubPipeline struct {
	result         *pipeline.Result
	err            error
	lastTailorOnly pipeline.TailorOnlyRequest
}

func (s *stubPipeline) Process(ctx context.Context, req pipeline.ProcessRequest) (*pipeline.Result, error) {
	return s.result, s.err
}

func (s *stubPipeline) TailorOnly(ctx context.Context, req pipeline.TailorOnlyRequest) (*pipeline.Result, error) {
	s.lastTailorOnly = req
	return s.result, s.err
}

func newResumeHandlerTest(parser *stubResumeParser, pl *stubPipeline) *ResumeHandler {
	return NewResumeHandler(parser, pl, zap.NewNop())
}

// multipartUpload builds a multipart body with one file part
func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestHandleUpload_MissingFile(t *testing.T) {
	h := newResumeHandlerTest(&stubResumeParser{}, &stubPipeline{})

	body, contentType := multipartUpload(t, "attachment", "resume.pdf", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpload_RejectsNonPDF(t *testing.T) {
	parser := &stubResumeParser{}
	h := newResumeHandlerTest(parser, &stubPipeline{})

	body, contentType := multipartUpload(t, "file", "resume.docx", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PDF")
	assert.Equal(t, 0, parser.calls)
}

func TestHandleUpload_RejectsOversizedFile(t *testing.T) {
	h := newResumeHandlerTest(&stubResumeParser{}, &stubPipeline{})

	body, contentType := multipartUpload(t, "file", "resume.pdf", bytes.Repeat([]byte("a"), extract.MaxUploadBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpload_UnreadablePDF(t *testing.T) {
	parser := &stubResumeParser{}
	h := newResumeHandlerTest(parser, &stubPipeline{})

	body, contentType := multipartUpload(t, "file", "resume.pdf", []byte("this is not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, parser.calls)
}

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		ThreadID: "thread-1",
		ParsedResume: &resume.Resume{
			Name: "Ada Lovelace",
			Education: []resume.EducationEntry{
				{Degree: "MSc Computing", Institution: "MTU", Year: "2025", NFQLevel: 9},
			},
			Skills: []resume.SkillCategory{
				{Name: "Programming Languages", Items: []string{"Python", "Go"}},
			},
		},
		TailoredResume: &resume.TailoredResume{
			ProfessionalSummary: "Engineer.",
			AchievementBullets:  []string{"a", "b", "c", "d", "e"},
			KeySkills:           []string{"Python", "Go", "SQL", "AWS", "Docker", "K8s", "Git", "Linux", "REST", "CI"},
		},
		MatchScore: 87.5,
		VisaAdvice: "advice",
		Messages:   []string{"Resume extracted and structured."},
	}
}

func TestHandleTailor(t *testing.T) {
	pl := &stubPipeline{result: sampleResult()}
	h := newResumeHandlerTest(&stubResumeParser{}, pl)

	body := `{"thread_id":"thread-1","target_role":"AI Engineer","target_company":"Stripe","jd_text":"Build models"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/tailor", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleTailor(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "thread-1", pl.lastTailorOnly.ThreadID)
	assert.Equal(t, "AI Engineer", pl.lastTailorOnly.TargetRole)
	assert.Equal(t, "Stripe", pl.lastTailorOnly.TargetCompany)
	assert.Equal(t, "Build models", pl.lastTailorOnly.JDText)

	var resp pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 87.5, resp.MatchScore)
	assert.Equal(t, "advice", resp.VisaAdvice)
	require.NotNil(t, resp.TailoredResume)
	assert.Len(t, resp.TailoredResume.KeySkills, 10)
}

func TestHandleTailor_InlineResume(t *testing.T) {
	pl := &stubPipeline{result: sampleResult()}
	h := newResumeHandlerTest(&stubResumeParser{}, pl)

	body := `{
		"target_role": "AI Engineer",
		"parsed_resume": {
			"name": "Ada Lovelace",
			"contact": {},
			"education": [{"degree":"MSc","institution":"MTU","year":"2025","nfq_level":9}],
			"skills": [{"name":"Languages","items":["Python"]}]
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/tailor", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleTailor(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, pl.lastTailorOnly.ParsedResume)
	assert.Equal(t, "Ada Lovelace", pl.lastTailorOnly.ParsedResume.Name)
}

func TestHandleTailor_MissingTargetRole(t *testing.T) {
	h := newResumeHandlerTest(&stubResumeParser{}, &stubPipeline{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/tailor", strings.NewReader(`{"thread_id":"t"}`))
	rec := httptest.NewRecorder()

	h.HandleTailor(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTailor_ColdThread(t *testing.T) {
	pl := &stubPipeline{err: services.ErrMissingSession}
	h := newResumeHandlerTest(&stubResumeParser{}, pl)

	body := `{"thread_id":"unknown","target_role":"AI Engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/tailor", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleTailor(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTailor_ProvidersExhausted(t *testing.T) {
	pl := &stubPipeline{err: services.ErrAllProvidersExhausted}
	h := newResumeHandlerTest(&stubResumeParser{}, pl)

	body := `{"thread_id":"thread-1","target_role":"AI Engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/tailor", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleTailor(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStampMonths(t *testing.T) {
	assert.Equal(t, "unknown", stampMonths(nil))
	assert.Equal(t, "unknown", stampMonths(map[string]interface{}{}))
	assert.Equal(t, float64(24), stampMonths(map[string]interface{}{"stamp_1g_months": float64(24)}))
}
