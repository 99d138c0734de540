package audit

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingInput = errors.New("missing input")
	ErrThrottled    = errors.New("throttled")
	ErrExtraction   = errors.New("extraction failed")
	ErrGeneration   = errors.New("generation failed")
)

// Kind labels a failure for metrics, logs and HTTP mapping.
type Kind string

const (
	KindMissingInput Kind = "missing_input"
	KindThrottled    Kind = "throttled"
	KindExtraction   Kind = "extraction"
	KindGeneration   Kind = "generation"
)

const (
	ErrorCodeMissingInput = "MISSING_INPUT"
	ErrorCodeThrottled    = "THROTTLED"
	ErrorCodeExtraction   = "EXTRACTION_FAILED"
	ErrorCodeGeneration   = "GENERATION_FAILED"
)

// Failure is the error carried by every unsuccessful Response. Message is safe
// to show to end users; Err holds the diagnostic chain.
type Failure struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind Kind, sentinel error, message string, cause error) *Failure {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &Failure{Kind: kind, Message: message, Err: err}
}

// FailureOf returns the Failure inside err, if any.
func FailureOf(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
