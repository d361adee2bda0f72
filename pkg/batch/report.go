package batch

import (
	"time"

	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
)

// Report is the outcome of a Run.
type Report struct {
	// Registry holds what every module published during the run.
	Registry *convert.Registry
	// Results has one entry per input, in input order.
	Results []*convert.Result
	Elapsed time.Duration
}

// Summary aggregates a report.
type Summary struct {
	Kinds        map[string]int `json:"kinds"         yaml:"kinds"         toml:"kinds"`
	Severities   map[string]int `json:"severities"    yaml:"severities"    toml:"severities"`
	Files        int            `json:"files"         yaml:"files"         toml:"files"`
	Converted    int            `json:"converted"     yaml:"converted"     toml:"converted"`
	Passthrough  int            `json:"passthrough"   yaml:"passthrough"   toml:"passthrough"`
	Failed       int            `json:"failed"        yaml:"failed"        toml:"failed"`
	PaymentCalls int            `json:"payment_calls" yaml:"payment_calls" toml:"payment_calls"`
}

// Summary counts files by status, kind and diagnostic severity.
func (report *Report) Summary() Summary {
	summary := Summary{
		Kinds:      make(map[string]int),
		Severities: make(map[string]int),
	}

	for _, result := range report.Results {
		if result == nil {
			continue
		}

		summary.Files++
		summary.Kinds[result.Kind.String()]++
		summary.PaymentCalls += result.Stats.PaymentCalls

		switch Status(result) {
		case observability.StatusConverted:
			summary.Converted++
		case observability.StatusPassthrough:
			summary.Passthrough++
		case observability.StatusFailed:
			summary.Failed++
		}

		for _, d := range result.Diagnostics {
			summary.Severities[d.Severity.String()]++
		}
	}

	return summary
}

// Diagnostics returns every diagnostic of the run, in input order.
func (report *Report) Diagnostics() []diag.Diagnostic {
	var all []diag.Diagnostic

	for _, result := range report.Results {
		if result != nil {
			all = append(all, result.Diagnostics...)
		}
	}

	return all
}

// HasErrors reports whether any module needs a manual fix.
func (report *Report) HasErrors() bool {
	for _, result := range report.Results {
		if result != nil && result.HasErrors() {
			return true
		}
	}

	return false
}
