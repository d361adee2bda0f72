package diag

import (
	"fmt"
	"sort"
)

// Bag collects the diagnostics of one file.
type Bag struct {
	path  string
	items []Diagnostic
}

// NewBag creates a bag whose diagnostics are attributed to path.
func NewBag(path string) *Bag {
	return &Bag{path: path}
}

// Add appends a diagnostic, filling in the file path when empty.
func (b *Bag) Add(d Diagnostic) {
	if d.FilePath == "" {
		d.FilePath = b.path
	}

	b.items = append(b.items, d)
}

// Report appends a diagnostic built from a format string.
func (b *Bag) Report(sev Severity, code Code, format string, args ...any) {
	b.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Info appends an informational diagnostic.
func (b *Bag) Info(code Code, format string, args ...any) {
	b.Report(SevInfo, code, format, args...)
}

// Warn appends a warning.
func (b *Bag) Warn(code Code, format string, args ...any) {
	b.Report(SevWarning, code, format, args...)
}

// Error appends an error.
func (b *Bag) Error(code Code, format string, args ...any) {
	b.Report(SevError, code, format, args...)
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}

	return false
}

// Items returns the diagnostics in insertion order.
// The slice is shared with the bag and must not be modified.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other.
func (b *Bag) Merge(other *Bag) {
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, then severity (errors first), then code.
// Insertion order is kept among equals.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.FilePath != dj.FilePath {
			return di.FilePath < dj.FilePath
		}

		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}

		return di.Code < dj.Code
	})
}

// CountBySeverity returns how many diagnostics carry each severity.
func (b *Bag) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, 3) //nolint:mnd // one slot per severity.

	for i := range b.items {
		counts[b.items[i].Severity]++
	}

	return counts
}
