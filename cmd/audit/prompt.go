package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/amanghuman/Resume-Audit-Pro/internal/bootstrap"
	"github.com/amanghuman/Resume-Audit-Pro/internal/extract"
	"github.com/amanghuman/Resume-Audit-Pro/internal/prompt"
)

//nolint:gochecknoglobals // Cobra boilerplate
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the assembled prompt without calling the provider",
	RunE:  runPrompt,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, jd, err := readInputs()
	if err != nil {
		return err
	}

	extractor, err := extract.New(cfg.ExtractorBackend)
	if err != nil {
		return err
	}
	text, err := extractor.ExtractBytes(context.Background(), doc)
	if err != nil {
		err = errors.Wrap(err, "failed to extract text")
		return err
	}

	builder, err := bootstrap.NewPromptBuilder(cfg)
	if err != nil {
		return err
	}
	rendered, err := builder.Build(prompt.Request{
		ResumeText:     text,
		TargetRole:     roleFlag,
		JobDescription: jd,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to build prompt")
		return err
	}

	if verboseFlag {
		fmt.Fprintf(cmd.ErrOrStderr(), "policy: %s, sha256: %s\n", builder.Policy, prompt.Hash(rendered))
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return err
}
