package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for conversions that probably need a second look.
	SevWarning
	// SevError is for output that needs a manual fix to run.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}

	return "UNKNOWN"
}

// MarshalText renders the severity by name in JSON, YAML and TOML reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
