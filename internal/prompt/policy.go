package prompt

import (
	"fmt"
	"strings"
)

// Tone is the voice the feedback is written in.
type Tone string

const (
	ToneExecutive    Tone = "executive"
	ToneProfessional Tone = "professional"
	ToneSupportive   Tone = "supportive"
)

// SectionSet selects the layout of the requested feedback.
type SectionSet string

const (
	// SectionsAudit is the executive audit dashboard.
	SectionsAudit SectionSet = "audit"
	// SectionsReview is the six-section role review.
	SectionsReview SectionSet = "review"
)

// Strictness controls how hard the reviewer grades.
type Strictness string

const (
	StrictnessLenient  Strictness = "lenient"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// Policy is the full template configuration for one deployment.
type Policy struct {
	Tone       Tone
	Sections   SectionSet
	Strictness Strictness
}

var toneInstructions = map[Tone]string{
	ToneExecutive:    "Write as a senior talent strategist briefing an executive: direct, data-first, boardroom-level framing.",
	ToneProfessional: "Write in a clear, neutral, professional register suitable for any career level.",
	ToneSupportive:   "Write in an encouraging, constructive voice and pair every criticism with a concrete next step.",
}

var strictnessInstructions = map[Strictness]string{
	StrictnessLenient:  "Flag only issues likely to cost the candidate an interview.",
	StrictnessStandard: "Flag material issues in detail and note minor ones briefly.",
	StrictnessStrict:   "Apply top 1% hiring standards: flag every weakness, including minor wording and formatting, and never round scores up.",
}

// DefaultPolicy matches the executive audit deployment.
func DefaultPolicy() Policy {
	return Policy{
		Tone:       ToneExecutive,
		Sections:   SectionsAudit,
		Strictness: StrictnessStandard,
	}
}

// ParsePolicy normalizes raw configuration values. Empty values take the
// default for that dimension.
func ParsePolicy(tone, sections, strictness string) (Policy, error) {
	p := DefaultPolicy()
	if v := normalize(tone); v != "" {
		p.Tone = Tone(v)
	}
	if v := normalize(sections); v != "" {
		p.Sections = SectionSet(v)
	}
	if v := normalize(strictness); v != "" {
		p.Strictness = Strictness(v)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate reports the first unknown dimension value.
func (p Policy) Validate() error {
	if _, ok := toneInstructions[p.Tone]; !ok {
		return fmt.Errorf("unknown tone %q", p.Tone)
	}
	if _, ok := templates[p.Sections]; !ok {
		return fmt.Errorf("unknown section set %q", p.Sections)
	}
	if _, ok := strictnessInstructions[p.Strictness]; !ok {
		return fmt.Errorf("unknown strictness %q", p.Strictness)
	}
	return nil
}

func (p Policy) String() string {
	return fmt.Sprintf("%s/%s/%s", p.Sections, p.Tone, p.Strictness)
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
