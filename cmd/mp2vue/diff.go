package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/mp2vue/pkg/batch"
	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 3

// ErrNotAScript is returned when diff is pointed at something other than a
// single .js file.
var ErrNotAScript = errors.New("not a .js script")

func diffCmd(root *rootOptions) *cobra.Command {
	var projectRoot string

	cmd := &cobra.Command{
		Use:   "diff file.js",
		Short: "Show what converting one script would change",
		Long: `Convert a single script without writing anything and print a line diff
between the original and the converted text, followed by its diagnostics.

Examples:
  mp2vue diff pages/index/index.js
  mp2vue diff --root ./miniapp ./miniapp/app.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			return runDiff(cmd, cfg, projectRoot, args[0])
		},
	}

	cmd.Flags().StringVar(&projectRoot, "root", ".", "project root")

	return cmd
}

func runDiff(cmd *cobra.Command, cfg *config.Config, rootDir, file string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projectRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	sess, err := newSession(cfg, cmd.ErrOrStderr(), observability.ModeCLI, projectRoot)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, sess.close(context.WithoutCancel(ctx)))
	}()

	disc := &discovery{logger: sess.providers.Logger, root: projectRoot}

	inputs, err := disc.inputs(ctx, []string{file})
	if err != nil {
		return err
	}

	if len(inputs) != 1 {
		return fmt.Errorf("%w: %s", ErrNotAScript, file)
	}

	report, err := batch.New(sess.engine, batch.WithLogger(sess.providers.Logger)).Run(ctx, inputs)
	if err != nil {
		return err
	}

	result := report.Results[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s (%s, %s)\n", result.Path, result.Kind, batch.Status(result))
	writeLineDiff(out, inputs[0].Text, result.Text)

	for _, d := range result.Diagnostics {
		fmt.Fprintf(out, "%s [%s] %s\n", severityColor(d.Severity), d.Code, d.Message)
	}

	return nil
}

// writeLineDiff prints a line diff of before and after, collapsing long
// unchanged runs.
func writeLineDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lines)

	if len(diffs) == 0 || (len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual) {
		fmt.Fprintln(w, "no changes")

		return
	}

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for idx, chunk := range diffs {
		chunkLines := splitLines(chunk.Text)

		switch chunk.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range chunkLines {
				removed.Fprintln(w, "-"+line)
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range chunkLines {
				added.Fprintln(w, "+"+line)
			}
		case diffmatchpatch.DiffEqual:
			writeContext(w, chunkLines, idx > 0, idx < len(diffs)-1)
		}
	}
}

func writeContext(w io.Writer, lines []string, afterChange, beforeChange bool) {
	head, tail := 0, 0
	if afterChange {
		head = diffContext
	}

	if beforeChange {
		tail = diffContext
	}

	if head+tail >= len(lines) {
		for _, line := range lines {
			fmt.Fprintln(w, " "+line)
		}

		return
	}

	for _, line := range lines[:head] {
		fmt.Fprintln(w, " "+line)
	}

	color.New(color.FgCyan).Fprintf(w, "@@ %d unchanged lines @@\n", len(lines)-head-tail)

	for _, line := range lines[len(lines)-tail:] {
		fmt.Fprintln(w, " "+line)
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
