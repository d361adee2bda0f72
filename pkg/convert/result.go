package convert

import (
	"strings"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// Stats counts notable API uses found while converting.
type Stats struct {
	PaymentCalls int `json:"payment_calls" yaml:"payment_calls" toml:"payment_calls"`
}

// Result is the outcome of converting one module.
type Result struct {
	// Groups is nil for modules that were passed through.
	Groups *Groups
	// Components maps the camel-cased component names registered in the
	// output to their import paths.
	Components map[string]string
	// Prologue holds the top-level statements kept around the converted
	// options object, in source order.
	Prologue              []string
	Path                  string
	Text                  string
	Diagnostics           []diag.Diagnostic
	Stats                 Stats
	Kind                  Kind
	IsAlreadyTargetFormat bool
}

// ScriptBlock returns the text ready to be placed in a single-file component.
// Modules that stay plain scripts are returned unchanged.
func (result *Result) ScriptBlock() string {
	if !result.Kind.SingleFile() || result.IsAlreadyTargetFormat {
		return result.Text
	}

	return "<script>\n" + strings.TrimRight(result.Text, "\n") + "\n</script>\n"
}

// PageTitle returns the static title set through setNavigationBarTitle in a
// lifecycle hook, or "".
func (result *Result) PageTitle() string {
	if result.Groups == nil {
		return ""
	}

	for _, field := range result.Groups.Lifecycle.Fields() {
		for _, call := range jsast.FindType(field.Node, jsast.TypeCallExpression) {
			if jsast.CalleeProperty(call) != "setNavigationBarTitle" {
				continue
			}

			args := jsast.CallArguments(call)
			if len(args) == 0 || !args[0].Is(jsast.TypeObject) {
				continue
			}

			title := jsast.EntryValue(jsast.FindEntry(args[0], "title"))
			if title.Is(jsast.TypeString) {
				return jsast.StringValue(title)
			}
		}
	}

	return ""
}

// HasErrors reports whether any diagnostic needs a manual fix.
func (result *Result) HasErrors() bool {
	for _, d := range result.Diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}

	return false
}
