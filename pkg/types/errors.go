package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the flat two-kind taxonomy surfaced to callers
type ErrorKind int

const (
	// KindUser means the caller's input was rejected; never retried internally
	KindUser ErrorKind = iota + 1
	// KindUnavailable means a downstream dependency failed, timed out or returned nothing usable
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindUser:
		return "user_error"
	case KindUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a kind, a caller-facing message and the originating cause for diagnostics
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewUserError builds a KindUser error
func NewUserError(message string) error {
	return &Error{Kind: KindUser, Message: message}
}

// NewUnavailable builds a KindUnavailable error wrapping cause (may be nil)
func NewUnavailable(message string, cause error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: cause}
}

// KindOf returns the kind of err, or 0 if err is not part of the taxonomy
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// MessageOf returns the caller-facing message of a taxonomy error, or "" otherwise
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// IsUserError reports whether err was caused by caller input
func IsUserError(err error) bool {
	return KindOf(err) == KindUser
}

// IsUnavailable reports whether err is a backend failure
func IsUnavailable(err error) bool {
	return KindOf(err) == KindUnavailable
}

// AsUnavailable keeps an existing taxonomy error and wraps anything else as KindUnavailable
func AsUnavailable(message string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != 0 {
		return err
	}
	return NewUnavailable(message, err)
}

// Caller-facing messages
const (
	MsgEmptyRequest    = "request contains neither a query nor a letter"
	MsgOffTopic        = "request does not fit the wartime theme, please rephrase it"
	MsgTryAgainLater   = "service temporarily unavailable, try again later"
	MsgTimedOut        = "timed out"
	MsgImageNotReady   = "could not retrieve image"
	MsgMusicFailed     = "music generation failed"
	MsgStoryFailed     = "story generation failed"
	MsgSummaryFailed   = "story summarization failed"
	MsgToneFailed      = "tone resolution failed"
	MsgClassifyFailed  = "request classification failed"
	MsgLyricsFailed    = "lyrics generation failed"
	MsgLetterNotFound  = "letter not found"
	MsgFactCheckFailed = "fact check failed"
)
