package diagnostics

import (
	"fmt"

	"github.com/funvibe/vega/internal/token"
)

// DiagnosticError is a typed failure outcome. Declaration-time errors abort
// the current unit; dispatch-time errors are per call site and leave the
// engine state valid.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	File    string
	Line    int
	Column  int
}

func (e *DiagnosticError) Error() string {
	pos := ""
	if e.File != "" || e.Line > 0 {
		pos = fmt.Sprintf("%s:%d:%d: ", e.File, e.Line, e.Column)
	}
	return fmt.Sprintf("%s[%s] %s", pos, e.Code, e.Message)
}

// Is reports whether target carries the same code. Lets callers use
// errors.Is with a code-only sentinel.
func (e *DiagnosticError) Is(target error) bool {
	de, ok := target.(*DiagnosticError)
	return ok && de.Code == e.Code
}

// NewError builds a DiagnosticError from a code, the offending declaration's
// token, and the arguments for the code's message template.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	tmpl, ok := messages[code]
	msg := ""
	if ok {
		msg = fmt.Sprintf(tmpl, args...)
	} else {
		msg = fmt.Sprint(args...)
	}
	return &DiagnosticError{
		Code:    code,
		Message: msg,
		File:    tok.File,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a DiagnosticError.
func CodeOf(err error) ErrorCode {
	if de, ok := err.(*DiagnosticError); ok {
		return de.Code
	}
	return ""
}
