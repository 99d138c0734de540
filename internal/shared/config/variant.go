package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Variant is a deployment variant file. Zero values leave the environment
// settings untouched.
//
//	prompt:
//	  tone: professional
//	  sections: review
//	  strictness: strict
//	fields:
//	  require_role: true
//	  require_job_description: false
//	cooldown: 2s
//	max_text_length: 100000
//	failure_policy: clear
type Variant struct {
	Prompt struct {
		Tone       string `yaml:"tone"`
		Sections   string `yaml:"sections"`
		Strictness string `yaml:"strictness"`
	} `yaml:"prompt"`
	Fields struct {
		RequireRole           *bool `yaml:"require_role"`
		RequireJobDescription *bool `yaml:"require_job_description"`
	} `yaml:"fields"`
	Cooldown      string `yaml:"cooldown"`
	MaxTextLength int    `yaml:"max_text_length"`
	FailurePolicy string `yaml:"failure_policy"`
}

// LoadVariant reads and parses a variant file.
func LoadVariant(path string) (Variant, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Variant{}, fmt.Errorf("read variant: %w", err)
	}
	return ParseVariant(raw)
}

// ParseVariant decodes variant YAML.
func ParseVariant(raw []byte) (Variant, error) {
	var v Variant
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return Variant{}, fmt.Errorf("parse variant: %w", err)
	}
	if v.Cooldown != "" {
		if _, err := time.ParseDuration(v.Cooldown); err != nil {
			return Variant{}, fmt.Errorf("parse variant cooldown: %w", err)
		}
	}
	if v.MaxTextLength < 0 {
		return Variant{}, fmt.Errorf("parse variant: max_text_length must not be negative")
	}
	return v, nil
}

// Apply overlays the variant onto cfg.
func (v Variant) Apply(cfg *AuditConfig) {
	if cfg == nil {
		return
	}
	if v.Prompt.Tone != "" {
		cfg.Tone = v.Prompt.Tone
	}
	if v.Prompt.Sections != "" {
		cfg.Sections = v.Prompt.Sections
	}
	if v.Prompt.Strictness != "" {
		cfg.Strictness = v.Prompt.Strictness
	}
	if v.Fields.RequireRole != nil {
		cfg.RequireRole = *v.Fields.RequireRole
	}
	if v.Fields.RequireJobDescription != nil {
		cfg.RequireJobDescription = *v.Fields.RequireJobDescription
	}
	if v.Cooldown != "" {
		if d, err := time.ParseDuration(v.Cooldown); err == nil {
			cfg.Cooldown = d
		}
	}
	if v.MaxTextLength > 0 {
		cfg.MaxTextLength = v.MaxTextLength
	}
	if v.FailurePolicy != "" {
		cfg.FailurePolicy = v.FailurePolicy
	}
}
