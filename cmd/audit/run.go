package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/amanghuman/Resume-Audit-Pro/internal/audit"
	"github.com/amanghuman/Resume-Audit-Pro/internal/bootstrap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract, prompt and generate feedback for one resume",
	Example: `  audit run --file resume.pdf --role "Data Scientist"
  audit run -f resume.pdf --job-description-file jd.txt --policy review/supportive/standard`,
	RunE: runAudit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runAudit(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, jd, err := readInputs()
	if err != nil {
		return err
	}

	pipeline, err := bootstrap.NewPipeline(ctx, cfg)
	if err != nil {
		err = errors.Wrap(err, "failed to configure pipeline")
		return err
	}

	resp := pipeline.Run(ctx, audit.Request{
		Document:       doc,
		FileName:       filepath.Base(fileFlag),
		TargetRole:     roleFlag,
		JobDescription: jd,
	})

	if verboseFlag {
		trail := make([]string, 0, len(resp.Trail))
		for _, s := range resp.Trail {
			trail = append(trail, string(s))
		}
		fmt.Fprintf(os.Stderr, "states: %s\n", strings.Join(trail, " -> "))
	}

	if resp.Err != nil {
		err = errors.Wrap(resp.Err, resp.Message)
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Feedback)
	return err
}
