package prompt

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"strings"
)

// DefaultMaxChars caps the resume text embedded in a prompt, in characters.
const DefaultMaxChars = 100_000

const genericRole = "General Professional"

var (
	//go:embed templates/audit.txt
	auditTemplate string
	//go:embed templates/review.txt
	reviewTemplate string

	templates = map[SectionSet]string{
		SectionsAudit:  auditTemplate,
		SectionsReview: reviewTemplate,
	}
)

// ErrEmptyResume is returned when there is no resume text to embed.
var ErrEmptyResume = errors.New("resume text is empty")

// Request is the user-supplied input to prompt assembly.
type Request struct {
	ResumeText     string
	TargetRole     string
	JobDescription string
}

// Builder assembles prompts for a fixed policy and character cap.
type Builder struct {
	Policy   Policy
	MaxChars int
}

// Build renders the prompt for req. Output depends only on the builder and req.
func (b Builder) Build(req Request) (string, error) {
	return Build(b.Policy, req, b.MaxChars)
}

// Build renders the prompt for req under policy p, embedding at most maxChars
// characters of resume text. A non-positive maxChars means DefaultMaxChars.
func Build(p Policy, req Request, maxChars int) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return "", ErrEmptyResume
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	role := strings.TrimSpace(req.TargetRole)
	if role == "" {
		role = genericRole
	}

	jd := ""
	if desc := strings.TrimSpace(req.JobDescription); desc != "" {
		jd = "\nJob description to mirror (reuse its keywords wherever the resume supports them):\n\"\"\"\n" + quoteSafe(desc) + "\n\"\"\"\n"
	}

	// Single pass: placeholder text inside the resume is never expanded.
	r := strings.NewReplacer(
		"{{ROLE}}", role,
		"{{TONE}}", toneInstructions[p.Tone],
		"{{STRICTNESS}}", strictnessInstructions[p.Strictness],
		"{{JOB_DESCRIPTION}}", jd,
		"{{RESUME}}", quoteSafe(Truncate(req.ResumeText, maxChars)),
	)
	return r.Replace(templates[p.Sections]), nil
}

// quoteSafe rewrites triple double quotes so embedded text cannot close the
// """ block it sits in.
func quoteSafe(text string) string {
	return strings.ReplaceAll(text, `"""`, `'''`)
}

// Truncate returns the first n characters of text.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// Hash returns a stable fingerprint of a rendered prompt for logs.
func Hash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
