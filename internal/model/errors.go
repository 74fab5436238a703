package model

import "errors"

// Fatal malformed-input conditions. Each aborts processing of the offending
// interview only; other interviews in the same run are unaffected.
var (
	ErrDuplicateTurnID    = errors.New("duplicate turn id")
	ErrMissingInsightType = errors.New("insight has no insight_type")
	ErrMissingInterviewID = errors.New("interview has no interview_id")
	ErrUnknownInsight     = errors.New("unknown insight reference")
	ErrUnknownInterview   = errors.New("unknown interview reference")
)
