// Package diag defines the diagnostics the converter attaches to its results.
//
// Diagnostics are append-only findings: producing one never changes how a file
// is converted. Every file owns a Bag; the batch driver merges them in input
// order for reporting.
package diag

import "fmt"

// Diagnostic is one finding about a converted file.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity" toml:"severity"`
	Code     Code     `json:"code"     yaml:"code"     toml:"code"`
	Message  string   `json:"message"  yaml:"message"  toml:"message"`
	FilePath string   `json:"file"     yaml:"file"     toml:"file"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.FilePath, d.Message)
}
