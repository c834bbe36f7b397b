// Package rpc is the uniform gateway for invoking named backend functions
// with JSON parameters. Every business operation in the application goes
// through a Caller; the set of valid function names and their shapes is
// defined entirely by the backend.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// Caller issues a named remote procedure call. Implementations never
// panic: any transport or execution failure is normalized into the
// returned *Error so callers use a single branching pattern.
type Caller interface {
	Call(ctx context.Context, fn string, params map[string]any) (json.RawMessage, *Error)
}

// Error is the normalized failure slot of a call.
type Error struct {
	// Message is the human-readable failure description, shown to the
	// operator when no more specific translation applies.
	Message string `json:"message"`
	// Code is the backend error code when one was supplied, in
	// Postgres SQLSTATE form (e.g. "23503").
	Code string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// fkMessagePattern matches referential-integrity failures reported only
// as message text.
var fkMessagePattern = regexp.MustCompile(`(?i)violat(es|ed) foreign key|foreign key`)

// IsForeignKeyViolation reports whether the error is a delete or update
// rejected because dependent rows exist, detected by the SQLSTATE
// foreign-key code or by message text.
func (e *Error) IsForeignKeyViolation() bool {
	if e == nil {
		return false
	}
	return e.Code == "23503" || fkMessagePattern.MatchString(e.Message)
}

// errorf builds an *Error from a format string.
func errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// sensitiveParams are credential-bearing parameter names whose values
// never reach the logs.
var sensitiveParams = map[string]struct{}{
	"p_passcode": {},
	"_passcode":  {},
}

// redactParams returns a copy of params safe for logging.
func redactParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	redacted := make(map[string]any, len(params))
	for name, value := range params {
		if _, ok := sensitiveParams[name]; ok {
			redacted[name] = "[REDACTED]"
			continue
		}
		redacted[name] = value
	}
	return redacted
}
