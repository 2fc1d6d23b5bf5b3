package pipeline

import (
	"github.com/yshmodi/eiregate/services/resume"
)

// SessionState is the accumulated state of one tailoring session, keyed by
// thread id. Fields are filled in as the pipeline stages run.
type SessionState struct {
	RawText        string                 `json:"raw_text,omitempty"`
	ParsedResume   *resume.Resume         `json:"parsed_resume,omitempty"`
	JDText         string                 `json:"jd_text,omitempty"`
	TargetRole     string                 `json:"target_role,omitempty"`
	TargetCompany  string                 `json:"target_company,omitempty"`
	TailoredResume *resume.TailoredResume `json:"tailored_resume,omitempty"`
	MatchScore     *float64               `json:"match_score,omitempty"`
	VisaAdvice     string                 `json:"visa_advice,omitempty"`
	Messages       []string               `json:"messages,omitempty"`
}

// Merge overlays an update onto the state: set scalars replace, messages
// append.
func (s *SessionState) Merge(update *SessionState) {
	if update == nil {
		return
	}
	if update.RawText != "" {
		s.RawText = update.RawText
	}
	if update.ParsedResume != nil {
		s.ParsedResume = update.ParsedResume
	}
	if update.JDText != "" {
		s.JDText = update.JDText
	}
	if update.TargetRole != "" {
		s.TargetRole = update.TargetRole
	}
	if update.TargetCompany != "" {
		s.TargetCompany = update.TargetCompany
	}
	if update.TailoredResume != nil {
		s.TailoredResume = update.TailoredResume
	}
	if update.MatchScore != nil {
		s.MatchScore = update.MatchScore
	}
	if update.VisaAdvice != "" {
		s.VisaAdvice = update.VisaAdvice
	}
	s.Messages = append(s.Messages, update.Messages...)
}
