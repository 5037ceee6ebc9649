package model

import "fmt"

// Level is the severity of a diagnostic.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Kind classifies why a diagnostic was produced.
type Kind string

const (
	KindMissingSource      Kind = "missing_source"
	KindParseFailure       Kind = "parse_failure"
	KindRowCoercionFailure Kind = "row_coercion_failure"
	KindPreconditionUnmet  Kind = "precondition_unmet"
)

// Diagnostic is a user-visible message emitted while loading or shaping data.
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Source  string
	Message string
}

func (d Diagnostic) String() string {
	if d.Source == "" {
		return fmt.Sprintf("%s: %s", d.Level, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Level, d.Message, d.Source)
}

// Warning builds a warning diagnostic.
func Warning(kind Kind, source, msg string) Diagnostic {
	return Diagnostic{Level: LevelWarning, Kind: kind, Source: source, Message: msg}
}

// Error builds an error diagnostic.
func Error(kind Kind, source, msg string) Diagnostic {
	return Diagnostic{Level: LevelError, Kind: kind, Source: source, Message: msg}
}
