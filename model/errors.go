package model

import (
	"errors"
	"fmt"
	"strings"
)

// SummaryError is the closed set of failure kinds the pipeline can surface.
// Sentinel values are compared with errors.Is; only ErrUnknown carries a
// request-specific message.
var (
	ErrNoInternet          = &SummaryError{Kind: "no_internet", msg: "no internet"}
	ErrInvalidLink         = &SummaryError{Kind: "invalid_link", msg: "invalid link"}
	ErrNoTranscript        = &SummaryError{Kind: "no_transcript", msg: "no transcript"}
	ErrNoContent           = &SummaryError{Kind: "no_content", msg: "no content"}
	ErrTooShort            = &SummaryError{Kind: "too_short", msg: "too short"}
	ErrPaywall             = &SummaryError{Kind: "paywall", msg: "paywall detected"}
	ErrTooLong             = &SummaryError{Kind: "too_long", msg: "too long"}
	ErrIncorrectKey        = &SummaryError{Kind: "incorrect_key", msg: "incorrect key"}
	ErrRateLimit           = &SummaryError{Kind: "rate_limit", msg: "rate limit"}
	ErrNoKey               = &SummaryError{Kind: "no_key", msg: "no key"}
	ErrBiliBiliLoginNeeded = &SummaryError{Kind: "bilibili_login_required", msg: "bilibili login required"}
)

type SummaryError struct {
	// Kind is the stable machine-readable identifier.
	Kind string
	msg  string
	// cause is an optional underlying error, set via Wrap.
	cause error
}

func (e *SummaryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *SummaryError) Unwrap() error { return e.cause }

// Is matches any SummaryError of the same kind, so wrapped copies still
// satisfy errors.Is(err, ErrNoTranscript) etc.
func (e *SummaryError) Is(target error) bool {
	t, ok := target.(*SummaryError)
	return ok && t.Kind == e.Kind
}

// Wrap returns a copy of the sentinel carrying an underlying cause.
func (e *SummaryError) Wrap(cause error) *SummaryError {
	return &SummaryError{Kind: e.Kind, msg: e.msg, cause: cause}
}

// Unknown builds the catch-all variant preserving the raw message verbatim.
func Unknown(message string) *SummaryError {
	return &SummaryError{Kind: "unknown", msg: message}
}

// IsUnknown reports whether err is the catch-all variant.
func IsUnknown(err error) bool {
	var se *SummaryError
	return errors.As(err, &se) && se.Kind == "unknown"
}

// classifyRule maps a lowercase substring to a taxonomy member. Rules are
// evaluated in order; the first match wins.
type classifyRule struct {
	substr string
	err    *SummaryError
}

var classifyRules = []classifyRule{
	{"paywall", ErrPaywall},
	{"bilibili login", ErrBiliBiliLoginNeeded},
	{"login required", ErrBiliBiliLoginNeeded},
	{"could not extract video id", ErrInvalidLink},
	{"invalid link", ErrInvalidLink},
	{"could not get transcript", ErrNoTranscript},
	{"no transcript", ErrNoTranscript},
	{"could not extract text from url", ErrNoContent},
	{"extracted text from file is empty", ErrNoContent},
	{"no content", ErrNoContent},
	{"unsupported file type", ErrInvalidLink},
	{"api key", ErrIncorrectKey},
	{"rate limit", ErrRateLimit},
}

// Classify maps a raw provider or tool error message onto the taxonomy.
// Unmatched messages come back as Unknown with the message preserved.
// Pure function; safe without network access.
func Classify(message string) *SummaryError {
	lower := strings.ToLower(message)
	for _, rule := range classifyRules {
		if strings.Contains(lower, rule.substr) {
			return rule.err
		}
	}
	return Unknown(message)
}

// AsSummaryError coerces any error into a taxonomy member. Typed errors pass
// through untouched; everything else goes through Classify on its message.
func AsSummaryError(err error) *SummaryError {
	var se *SummaryError
	if errors.As(err, &se) {
		return se
	}
	return Classify(err.Error())
}
