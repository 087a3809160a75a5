// Package validation holds the field-level validation error shared by the
// service config and the environment record.
package validation

import "fmt"

// ValidationError names the offending field and what is wrong with it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Fields returns every *ValidationError found in err, including those joined
// with errors.Join or wrapped with %w.
func Fields(err error) []*ValidationError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ValidationError:
		return []*ValidationError{e}
	case interface{ Unwrap() []error }:
		var out []*ValidationError
		for _, inner := range e.Unwrap() {
			out = append(out, Fields(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return Fields(e.Unwrap())
	default:
		return nil
	}
}

// Port checks that port is a usable TCP port.
func Port(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// LogLevel checks a logger level name.
func LogLevel(field, level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return &ValidationError{Field: field, Message: "must be one of: debug, info, warn, error"}
	}
}

// LogFormat checks a logger output format.
func LogFormat(field, format string) error {
	switch format {
	case "json", "console":
		return nil
	default:
		return &ValidationError{Field: field, Message: "must be one of: json, console"}
	}
}
