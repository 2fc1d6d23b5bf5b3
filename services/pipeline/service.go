// Package pipeline orchestrates the two-stage resume workflow: extraction of
// structured data from raw text, then tailoring against a target role.
// Sessions are keyed by thread id so a client can re-enter the pipeline
// without repeating the extraction stage.
package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
	"github.com/yshmodi/eiregate/services/resume"
)

// Stage transition messages recorded on the session log
const (
	msgExtracted = "Resume extracted and structured."
	msgTailored  = "Resume tailored + score & visa advice computed"
)

// SessionStore persists session state between pipeline entries. Get returns
// (nil, nil) when no session exists for the thread id.
type SessionStore interface {
	Get(ctx context.Context, threadID string) (*SessionState, error)
	Put(ctx context.Context, threadID string, update *SessionState) error
}

// ResumeParser is the extraction stage
type ResumeParser interface {
	Parse(ctx context.Context, rawText string) (*resume.Resume, string, error)
}

// ResumeTailor is the tailoring stage
type ResumeTailor interface {
	Run(ctx context.Context, req resume.TailorRequest) (*resume.TailoredResume, string, error)
}

// Service drives the pipeline stages and keeps session state in the store
type Service struct {
	parser ResumeParser
	tailor ResumeTailor
	store  SessionStore
	logger *zap.Logger
}

// NewService creates the pipeline orchestrator
func NewService(parser ResumeParser, tailor ResumeTailor, store SessionStore, logger *zap.Logger) *Service {
	return &Service{
		parser: parser,
		tailor: tailor,
		store:  store,
		logger: logger,
	}
}

// ProcessRequest carries the inputs of one full pipeline run
type ProcessRequest struct {
	ThreadID      string
	RawText       string
	TargetRole    string
	TargetCompany string
	JDText        string
}

// TailorOnlyRequest re-enters the pipeline at the tailoring stage. Either
// ThreadID must name a session with a persisted parsed resume, or
// ParsedResume supplies one inline.
type TailorOnlyRequest struct {
	ThreadID      string
	ParsedResume  *resume.Resume
	TargetRole    string
	TargetCompany string
	JDText        string
}

// Result is the outcome of a pipeline run
type Result struct {
	ThreadID       string                 `json:"thread_id"`
	ParsedResume   *resume.Resume         `json:"parsed_resume"`
	TailoredResume *resume.TailoredResume `json:"tailored_resume"`
	MatchScore     float64                `json:"match_score"`
	VisaAdvice     string                 `json:"visa_advice"`
	Messages       []string               `json:"messages"`
}

// Process runs the full pipeline. When the thread already holds a parsed
// resume, extraction is skipped and the persisted one is reused.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*Result, error) {
	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	state, err := s.loadState(ctx, threadID)
	if err != nil {
		return nil, err
	}

	state.Merge(&SessionState{
		JDText:        req.JDText,
		TargetRole:    req.TargetRole,
		TargetCompany: req.TargetCompany,
	})

	if state.ParsedResume == nil {
		rawText := req.RawText
		if strings.TrimSpace(rawText) == "" {
			rawText = state.RawText
		}

		parsed, provider, err := s.parser.Parse(ctx, rawText)
		if err != nil {
			return nil, err
		}
		s.logger.Info("extraction stage complete",
			zap.String("thread_id", threadID),
			zap.String("provider", provider))

		update := &SessionState{
			RawText:       rawText,
			ParsedResume:  parsed,
			JDText:        state.JDText,
			TargetRole:    state.TargetRole,
			TargetCompany: state.TargetCompany,
			Messages:      []string{msgExtracted},
		}
		state.Merge(update)
		if err := s.store.Put(ctx, threadID, update); err != nil {
			return nil, err
		}
	} else {
		s.logger.Info("extraction stage skipped, parsed resume already persisted",
			zap.String("thread_id", threadID))
	}

	return s.runTailorStage(ctx, threadID, state)
}

// TailorOnly skips extraction entirely. A cold thread with no inline parsed
// resume is an error, not an implicit extraction.
func (s *Service) TailorOnly(ctx context.Context, req TailorOnlyRequest) (*Result, error) {
	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	state, err := s.loadState(ctx, threadID)
	if err != nil {
		return nil, err
	}

	update := &SessionState{
		JDText:        req.JDText,
		TargetRole:    req.TargetRole,
		TargetCompany: req.TargetCompany,
	}
	if req.ParsedResume != nil {
		update.ParsedResume = req.ParsedResume
	}
	state.Merge(update)

	if state.ParsedResume == nil {
		return nil, services.ErrMissingSession
	}

	if err := s.store.Put(ctx, threadID, update); err != nil {
		return nil, err
	}

	return s.runTailorStage(ctx, threadID, state)
}

func (s *Service) runTailorStage(ctx context.Context, threadID string, state *SessionState) (*Result, error) {
	tailored, provider, err := s.tailor.Run(ctx, resume.TailorRequest{
		Parsed:        state.ParsedResume,
		TargetRole:    state.TargetRole,
		TargetCompany: state.TargetCompany,
		JDText:        state.JDText,
	})
	if err != nil {
		return nil, err
	}

	score := resume.MatchScore(state.ParsedResume.Skills, tailored.KeySkills)
	advice := resume.VisaAdvice(state.ParsedResume.Education)

	s.logger.Info("tailoring stage complete",
		zap.String("thread_id", threadID),
		zap.String("provider", provider),
		zap.Float64("match_score", score))

	update := &SessionState{
		JDText:         state.JDText,
		TargetRole:     state.TargetRole,
		TargetCompany:  state.TargetCompany,
		TailoredResume: tailored,
		MatchScore:     &score,
		VisaAdvice:     advice,
		Messages:       []string{msgTailored},
	}
	state.Merge(update)
	if err := s.store.Put(ctx, threadID, update); err != nil {
		return nil, err
	}

	return &Result{
		ThreadID:       threadID,
		ParsedResume:   state.ParsedResume,
		TailoredResume: state.TailoredResume,
		MatchScore:     score,
		VisaAdvice:     advice,
		Messages:       state.Messages,
	}, nil
}

func (s *Service) loadState(ctx context.Context, threadID string) (*SessionState, error) {
	state, err := s.store.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &SessionState{}
	}
	return state, nil
}
