package core

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	CodeForbidden        Code = "FORBIDDEN"
	CodeInvalidRequest   Code = "INVALID_REQUEST"
	CodeUpstream         Code = "UPSTREAM_FAILURE"
)

type Stage string

const (
	StageRateCheck     Stage = "RATE_CHECK"
	StageMemorySync    Stage = "MEMORY_SYNC"
	StageRelevanceGate Stage = "RELEVANCE_GATE"
	StageGenerate      Stage = "GENERATE"
	StageHumanize      Stage = "HUMANIZE"
	StageTranslate     Stage = "TRANSLATE"
	StageFollowUps     Stage = "FOLLOWUPS"
	StagePersist       Stage = "PERSIST"
	StageRespond       Stage = "RESPOND"
)

// Error tags a pipeline failure with what went wrong and where.
type Error struct {
	Code  Code
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %s", e.Code, e.Stage)
	}
	return fmt.Sprintf("%s at %s: %v", e.Code, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, stage Stage, err error) *Error {
	return &Error{Code: code, Stage: stage, Err: err}
}

// CodeOf returns the tag of a pipeline error, or "" for anything else.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
