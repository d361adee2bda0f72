package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/mp2vue/pkg/batch"
	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
)

// ErrUnsupportedFormat is returned for an unknown report format.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// runReport is the machine-readable form of a conversion run.
type runReport struct {
	Version string         `json:"version" yaml:"version" toml:"version"`
	Elapsed string         `json:"elapsed" yaml:"elapsed" toml:"elapsed"`
	Files   []fileReport   `json:"files"   yaml:"files"   toml:"files"`
	Summary batch.Summary  `json:"summary" yaml:"summary" toml:"summary"`
	Input   inputFootprint `json:"input"   yaml:"input"   toml:"input"`
}

type inputFootprint struct {
	Bytes   int `json:"bytes"   yaml:"bytes"   toml:"bytes"`
	Written int `json:"written" yaml:"written" toml:"written"`
}

type fileReport struct {
	Path          string            `json:"path"                  yaml:"path"                  toml:"path"`
	Kind          string            `json:"kind"                  yaml:"kind"                  toml:"kind"`
	Status        string            `json:"status"                yaml:"status"                toml:"status"`
	Title         string            `json:"title,omitempty"       yaml:"title,omitempty"       toml:"title,omitempty"`
	Diagnostics   []diag.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
	AlreadyTarget bool              `json:"already_target"        yaml:"already_target"        toml:"already_target"`
}

func newRunReport(report *batch.Report, versionText string, footprint inputFootprint) runReport {
	files := make([]fileReport, 0, len(report.Results))

	for _, result := range report.Results {
		files = append(files, fileReport{
			Path:          result.Path,
			Kind:          result.Kind.String(),
			Status:        batch.Status(result),
			Title:         result.PageTitle(),
			Diagnostics:   result.Diagnostics,
			AlreadyTarget: result.IsAlreadyTargetFormat,
		})
	}

	return runReport{
		Version: versionText,
		Elapsed: report.Elapsed.Round(time.Millisecond).String(),
		Files:   files,
		Summary: report.Summary(),
		Input:   footprint,
	}
}

func renderReport(w io.Writer, format string, rep runReport) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
	case config.FormatTOML:
		if err := toml.NewEncoder(w).Encode(rep); err != nil {
			return fmt.Errorf("encode toml report: %w", err)
		}
	case config.FormatText:
		renderText(w, rep)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return nil
}

func renderText(w io.Writer, rep runReport) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"File", "Kind", "Status", "Diagnostics"})

	for _, file := range rep.Files {
		tbl.AppendRow(table.Row{file.Path, file.Kind, statusColor(file.Status), len(file.Diagnostics)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d files", rep.Summary.Files)})
	tbl.Render()

	printed := false

	for _, file := range rep.Files {
		for _, d := range file.Diagnostics {
			if !printed {
				fmt.Fprintln(w, "\nDiagnostics:")

				printed = true
			}

			fmt.Fprintf(w, "  %s %s [%s] %s\n", severityColor(d.Severity), d.FilePath, d.Code, d.Message)
		}
	}

	fmt.Fprintf(w, "\nConverted %d, passed through %d, failed %d of %s in %s (%s read",
		rep.Summary.Converted, rep.Summary.Passthrough, rep.Summary.Failed,
		humanize.Comma(int64(rep.Summary.Files)), rep.Elapsed, humanize.Bytes(uint64(rep.Input.Bytes))) //nolint:gosec // Sizes are never negative.

	if rep.Input.Written > 0 {
		fmt.Fprintf(w, ", %s written", humanize.Bytes(uint64(rep.Input.Written))) //nolint:gosec // Sizes are never negative.
	}

	fmt.Fprintln(w, ")")

	if rep.Summary.PaymentCalls > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d payment call(s) need platform-specific review\n", rep.Summary.PaymentCalls)
	}
}

func statusColor(status string) string {
	switch status {
	case observability.StatusConverted:
		return color.GreenString(status)
	case observability.StatusFailed:
		return color.RedString(status)
	default:
		return status
	}
}

func severityColor(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return color.RedString(sev.String())
	case diag.SevWarning:
		return color.YellowString(sev.String())
	default:
		return color.CyanString(sev.String())
	}
}
