package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services/extract"
	"github.com/yshmodi/eiregate/services/pipeline"
	"github.com/yshmodi/eiregate/services/resume"
	"github.com/yshmodi/eiregate/utils"
)

// ResumeParser is the extraction-only stage used by the upload endpoint
type ResumeParser interface {
	Parse(ctx context.Context, rawText string) (*resume.Resume, string, error)
}

// ResumePipeline runs the full or tailor-only workflow
type ResumePipeline interface {
	Process(ctx context.Context, req pipeline.ProcessRequest) (*pipeline.Result, error)
	TailorOnly(ctx context.Context, req pipeline.TailorOnlyRequest) (*pipeline.Result, error)
}

// ResumeHandler handles resume HTTP requests
type ResumeHandler struct {
	parser   ResumeParser
	pipeline ResumePipeline
	logger   *zap.Logger
}

// NewResumeHandler creates a new ResumeHandler
func NewResumeHandler(parser ResumeParser, pl ResumePipeline, logger *zap.Logger) *ResumeHandler {
	return &ResumeHandler{
		parser:   parser,
		pipeline: pl,
		logger:   logger,
	}
}

// HandleUpload handles POST /api/v1/resume/upload.
// PDF upload, text extraction, structured parse. No tailoring.
func (h *ResumeHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	rawText, ok := h.extractUpload(w, r)
	if !ok {
		return
	}

	parsed, provider, err := h.parser.Parse(r.Context(), rawText)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("resume uploaded and parsed",
		zap.String("provider", provider),
		zap.String("name", parsed.Name))

	_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"parsed_resume": parsed,
		"visa_summary":  fmt.Sprintf("Eligible for up to %v months Stamp 1G", stampMonths(parsed.VisaNotes)),
	})
}

// HandleProcess handles POST /api/v1/resume/process.
// Full pipeline: PDF upload, parse, tailor, match score and visa advice.
func (h *ResumeHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	rawText, ok := h.extractUpload(w, r)
	if !ok {
		return
	}

	targetRole := strings.TrimSpace(r.FormValue("target_role"))
	if targetRole == "" {
		_ = utils.WriteBadRequest(w, "target_role is required", nil)
		return
	}

	result, err := h.pipeline.Process(r.Context(), pipeline.ProcessRequest{
		ThreadID:      strings.TrimSpace(r.FormValue("thread_id")),
		RawText:       rawText,
		TargetRole:    targetRole,
		TargetCompany: strings.TrimSpace(r.FormValue("target_company")),
		JDText:        r.FormValue("jd_text"),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, result)
}

type tailorRequest struct {
	ThreadID      string         `json:"thread_id"`
	ParsedResume  *resume.Resume `json:"parsed_resume"`
	TargetRole    string         `json:"target_role" validate:"required"`
	TargetCompany string         `json:"target_company"`
	JDText        string         `json:"jd_text"`
}

// HandleTailor handles POST /api/v1/resume/tailor.
// Re-enters the pipeline at the tailoring stage, either with an inline parsed
// resume or a thread id from a previous run.
func (h *ResumeHandler) HandleTailor(w http.ResponseWriter, r *http.Request) {
	var req tailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err)
		return
	}

	result, err := h.pipeline.TailorOnly(r.Context(), pipeline.TailorOnlyRequest{
		ThreadID:      req.ThreadID,
		ParsedResume:  req.ParsedResume,
		TargetRole:    req.TargetRole,
		TargetCompany: req.TargetCompany,
		JDText:        req.JDText,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// extractUpload reads the multipart "file" field and pulls the raw text out of
// the PDF. Writes the error response itself and returns ok=false on failure.
func (h *ResumeHandler) extractUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, extract.MaxUploadBytes+64*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = utils.WriteBadRequest(w, "file is required", nil)
		return "", false
	}
	defer file.Close()

	if err := extract.ValidateUpload(header.Filename, header.Size); err != nil {
		HandleServiceError(w, err, h.logger)
		return "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", zap.Error(err))
		_ = utils.WriteBadRequest(w, "could not read uploaded file", nil)
		return "", false
	}

	rawText, err := extract.Text(data)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return "", false
	}
	return rawText, true
}

// stampMonths reads the Stamp 1G duration the parser inferred, if any
func stampMonths(notes map[string]interface{}) interface{} {
	if notes != nil {
		if months, ok := notes["stamp_1g_months"]; ok {
			return months
		}
	}
	return "unknown"
}
