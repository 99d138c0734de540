package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	policyFlag  string
	roleFlag    string
	jdFileFlag  string
	fileFlag    string
	verboseFlag bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a resume PDF from the command line",
	Long: `audit extracts the text of a resume PDF, assembles the review prompt and
sends it to the configured text-generation provider.

Provider, model and prompt defaults come from the same environment variables
and .env files as the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "resume PDF to audit")
	rootCmd.PersistentFlags().StringVarP(&roleFlag, "role", "r", "", "target role")
	rootCmd.PersistentFlags().StringVar(&jdFileFlag, "job-description-file", "", "file holding the job description")
	rootCmd.PersistentFlags().StringVar(&policyFlag, "policy", "", "prompt policy as sections/tone/strictness, e.g. review/supportive/lenient")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// loadConfig reads the environment and applies --policy.
func loadConfig() (cfg config.Config, err error) {
	cfg = config.Load()
	if strings.TrimSpace(policyFlag) == "" {
		return cfg, err
	}
	parts := strings.Split(policyFlag, "/")
	if len(parts) != 3 {
		err = errors.Errorf("policy %q must be sections/tone/strictness", policyFlag)
		return cfg, err
	}
	cfg.Audit.Sections = parts[0]
	cfg.Audit.Tone = parts[1]
	cfg.Audit.Strictness = parts[2]
	return cfg, err
}

// readInputs loads the resume bytes and the optional job description.
func readInputs() (doc []byte, jd string, err error) {
	if strings.TrimSpace(fileFlag) == "" {
		err = errors.New("--file is required")
		return doc, jd, err
	}
	doc, err = os.ReadFile(fileFlag)
	if err != nil {
		err = errors.Wrap(err, "failed to read resume")
		return doc, jd, err
	}
	if jdFileFlag != "" {
		var raw []byte
		raw, err = os.ReadFile(jdFileFlag)
		if err != nil {
			err = errors.Wrap(err, "failed to read job description")
			return doc, jd, err
		}
		jd = string(raw)
	}
	return doc, jd, err
}
