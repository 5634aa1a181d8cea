// Package diagnostics defines lualike error codes, source spans and the
// diagnostic records built from tokenizer and evaluator errors.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Tokenizer error codes.
const (
	EInvalidSymbol      = "E_INVALID_SYMBOL"
	ETooLongToken       = "E_TOO_LONG_TOKEN"
	EInvalidNumber      = "E_INVALID_NUMBER"
	EUnterminatedString = "E_UNTERMINATED_STRING"
	EUnrecognizedEscape = "E_UNRECOGNIZED_ESCAPE"
)

// Evaluator error codes.
const (
	EUnexpectedEOF        = "E_UNEXPECTED_EOF"
	EUnknownName          = "E_UNKNOWN_NAME"
	ERedeclarationOfLocal = "E_REDECLARATION_OF_LOCAL"
	EExpectedExpression   = "E_EXPECTED_EXPRESSION"
	EUnclosedParenthesis  = "E_UNCLOSED_PARENTHESIS"
	EExpectedKeyword      = "E_EXPECTED_KEYWORD"
	ENotCallable          = "E_NOT_CALLABLE"
	EBuiltin              = "E_BUILTIN"
)

// Value operator error codes.
const (
	EOperandNotNumeric  = "E_OPERAND_NOT_NUMERIC"
	EOperandNotBoolean  = "E_OPERAND_NOT_BOOLEAN"
	EInvalidOperandType = "E_INVALID_OPERAND_TYPE"
)

// EIO is reported for errors that carry no lualike code.
const EIO = "E_IO"

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
}

// Diagnostic represents a tokenizer or evaluator failure.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Coded is implemented by every error type in lualike that carries a
// diagnostic code.
type Coded interface {
	error
	Diagnostic() Diagnostic
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// FromError converts err into a Diagnostic. Errors that are not lualike
// errors are reported under EIO.
func FromError(err error) Diagnostic {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.Diagnostic()
	}
	return MakeDiag(EIO, err.Error(), nil, "")
}

var (
	codeColor = color.New(color.FgRed, color.Bold)
	locColor  = color.New(color.FgCyan)
	hintColor = color.New(color.FgYellow)
)

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = d.Span.String()
	}
	out := fmt.Sprintf("%s: %s\n  --> %s",
		codeColor.Sprintf("error[%s]", d.Code), d.Message, locColor.Sprint(loc))
	if d.Hint != "" {
		out += "\n  " + hintColor.Sprintf("hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// SetColor forces colorized output on or off for pretty diagnostics.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}
