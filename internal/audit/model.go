package audit

import (
	"fmt"
	"strings"
	"time"
)

// State is a step in the lifecycle of one audit request.
type State string

const (
	StateIdle             State = "idle"
	StateExtracting       State = "extracting"
	StateExtracted        State = "extracted"
	StateExtractionFailed State = "extraction_failed"
	StateGenerating       State = "generating"
	StateGenerated        State = "generated"
	StateGenerationFailed State = "generation_failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateExtractionFailed, StateGenerationFailed, StateGenerated:
		return true
	default:
		return false
	}
}

// Session is the per-caller state threaded through successive runs. The
// pipeline never stores it; callers pass it in and keep what comes back.
type Session struct {
	// LastCallAt is when the last remote call returned, successful or not.
	LastCallAt    time.Time `json:"lastCallAt,omitempty"`
	Feedback      string    `json:"feedback,omitempty"`
	ExtractedText string    `json:"-"`
	FileName      string    `json:"fileName,omitempty"`
}

// Request is one invocation of the pipeline.
type Request struct {
	Document       []byte
	FileName       string
	TargetRole     string
	JobDescription string
	Session        Session
}

// Response is the outcome of one invocation. Err is nil only when State is
// StateGenerated.
type Response struct {
	State    State
	Feedback string
	Message  string
	Session  Session
	Err      error
	Trail    []State
}

// FailurePolicy decides what happens to previously shown feedback when a run
// fails after I/O started.
type FailurePolicy string

const (
	KeepOnFailure  FailurePolicy = "keep"
	ClearOnFailure FailurePolicy = "clear"
)

// ParseFailurePolicy accepts keep or clear; empty means keep.
func ParseFailurePolicy(raw string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(KeepOnFailure):
		return KeepOnFailure, nil
	case string(ClearOnFailure):
		return ClearOnFailure, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", raw)
	}
}

// FieldPolicy lists which free-text fields a deployment requires.
type FieldPolicy struct {
	RequireRole           bool
	RequireJobDescription bool
}
