package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNormal is plain, uncoloured output.
	SevNormal Severity = iota
	SevHint
	SevInfo
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNormal:
		return "NORMAL"
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in one-line output.
func (s Severity) Label() string {
	switch s {
	case SevNormal:
		return "normal"
	case SevHint:
		return "hint"
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
