package audit

import (
	"context"
	"strings"
	"time"

	"github.com/amanghuman/Resume-Audit-Pro/internal/llm"
	"github.com/amanghuman/Resume-Audit-Pro/internal/prompt"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/metrics"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/telemetry"
)

const (
	msgMissingDocument = "Please upload a resume PDF."
	msgMissingRole     = "Please enter a target role."
	msgMissingJD       = "Please paste the job description."
	msgThrottled       = "Please wait a moment before the next submission."
	msgExtraction      = "Could not extract text from the PDF."
	msgGeneration      = "The audit could not be generated. Please try again."
)

// Extractor turns document bytes into plain text.
type Extractor interface {
	ExtractBytes(ctx context.Context, data []byte) (string, error)
}

// PromptBuilder renders the instruction text for a request.
type PromptBuilder interface {
	Build(req prompt.Request) (string, error)
}

// Pipeline runs extraction then generation for one request. It holds
// configuration and collaborators only; all per-caller state travels in
// Request.Session and Response.Session.
type Pipeline struct {
	Extractor Extractor
	Prompts   PromptBuilder
	LLM       llm.Client
	Cooldown  time.Duration
	Fields    FieldPolicy
	OnFailure FailurePolicy
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

type run struct {
	resp Response
}

func (r *run) enter(s State) {
	r.resp.State = s
	r.resp.Trail = append(r.resp.Trail, s)
}

// Run executes the pipeline. It never panics on extractor or provider errors
// and never retries; every failure is terminal for this invocation.
func (p *Pipeline) Run(ctx context.Context, req Request) Response {
	r := &run{resp: Response{Session: req.Session}}
	r.enter(StateIdle)

	if f := p.checkInput(req); f != nil {
		return p.reject(r, f)
	}
	if wait := cooldownRemaining(p.Cooldown, req.Session.LastCallAt, p.now()); wait > 0 {
		f := newFailure(KindThrottled, ErrThrottled, msgThrottled, nil)
		f.RetryAfter = wait
		return p.reject(r, f)
	}

	metrics.IncAuditStarted()

	r.enter(StateExtracting)
	started := time.Now()
	text, err := p.Extractor.ExtractBytes(ctx, req.Document)
	metrics.ObserveExtractMs(float64(time.Since(started).Milliseconds()))
	if err != nil {
		return p.fail(r, StateExtractionFailed, newFailure(KindExtraction, ErrExtraction, msgExtraction, err), req.Session)
	}
	r.enter(StateExtracted)

	r.enter(StateGenerating)
	rendered, err := p.Prompts.Build(prompt.Request{
		ResumeText:     text,
		TargetRole:     req.TargetRole,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		return p.fail(r, StateGenerationFailed, newFailure(KindGeneration, ErrGeneration, msgGeneration, err), req.Session)
	}

	started = time.Now()
	raw, err := p.LLM.Generate(ctx, rendered)
	metrics.ObserveGenerateMs(float64(time.Since(started).Milliseconds()))

	// The cooldown runs from the end of the call, whatever the outcome.
	session := req.Session
	session.LastCallAt = p.now()

	if err != nil {
		return p.fail(r, StateGenerationFailed, newFailure(KindGeneration, ErrGeneration, msgGeneration, err), session)
	}
	feedback := llm.Clean(raw)
	if feedback == "" {
		return p.fail(r, StateGenerationFailed, newFailure(KindGeneration, ErrGeneration, msgGeneration, llm.ErrEmptyResponse), session)
	}

	session.Feedback = feedback
	session.ExtractedText = text
	session.FileName = req.FileName

	r.enter(StateGenerated)
	r.resp.Feedback = feedback
	r.resp.Session = session
	metrics.IncAuditGenerated()
	telemetry.Info("audit.generated", map[string]any{
		"file_name":      req.FileName,
		"text_chars":     len([]rune(text)),
		"prompt_hash":    prompt.Hash(rendered),
		"feedback_chars": len([]rune(feedback)),
	})
	return r.resp
}

func (p *Pipeline) checkInput(req Request) *Failure {
	if len(req.Document) == 0 {
		return newFailure(KindMissingInput, ErrMissingInput, msgMissingDocument, nil)
	}
	if p.Fields.RequireRole && strings.TrimSpace(req.TargetRole) == "" {
		return newFailure(KindMissingInput, ErrMissingInput, msgMissingRole, nil)
	}
	if p.Fields.RequireJobDescription && strings.TrimSpace(req.JobDescription) == "" {
		return newFailure(KindMissingInput, ErrMissingInput, msgMissingJD, nil)
	}
	return nil
}

// reject ends a run before any I/O. The session is returned untouched.
func (p *Pipeline) reject(r *run, f *Failure) Response {
	metrics.IncAuditFailed(string(f.Kind))
	r.resp.Message = f.Message
	r.resp.Err = f
	return r.resp
}

func (p *Pipeline) fail(r *run, terminal State, f *Failure, session Session) Response {
	if p.OnFailure == ClearOnFailure {
		session.Feedback = ""
		session.ExtractedText = ""
		session.FileName = ""
	}
	r.enter(terminal)
	r.resp.Message = f.Message
	r.resp.Err = f
	r.resp.Session = session
	metrics.IncAuditFailed(string(f.Kind))
	telemetry.Error("audit.failed", map[string]any{
		"state": string(terminal),
		"kind":  string(f.Kind),
		"error": f.Err,
	})
	return r.resp
}
