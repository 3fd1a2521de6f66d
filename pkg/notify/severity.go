package notify

import (
	"fmt"
	"strings"
)

// Severity selects the visual style of an alert.
type Severity string

const (
	SeveritySuccess   Severity = "success"
	SeverityDanger    Severity = "danger"
	SeverityWarning   Severity = "warning"
	SeverityInfo      Severity = "info"
	SeverityPrimary   Severity = "primary"
	SeveritySecondary Severity = "secondary"
	SeverityLight     Severity = "light"
	SeverityDark      Severity = "dark"
)

var severities = []Severity{
	SeveritySuccess,
	SeverityDanger,
	SeverityWarning,
	SeverityInfo,
	SeverityPrimary,
	SeveritySecondary,
	SeverityLight,
	SeverityDark,
}

// Severities returns every supported severity.
func Severities() []Severity {
	return append([]Severity(nil), severities...)
}

// Valid reports whether s is one of the supported severities.
func (s Severity) Valid() bool {
	for _, v := range severities {
		if s == v {
			return true
		}
	}
	return false
}

// Class returns the style class encoding the severity, e.g. "alert-danger".
func (s Severity) Class() string {
	return "alert-" + string(s)
}

// ParseSeverity converts a case-insensitive name into a Severity.
// "error" is accepted as an alias for danger.
func ParseSeverity(name string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(name)))
	if s == "error" {
		return SeverityDanger, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
	}
	return s, nil
}
