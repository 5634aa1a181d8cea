package evaluator

import (
	"errors"
	"fmt"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/lexer"
	"github.com/shvrma/lualike/pkg/value"
)

// EvalError is an error raised while evaluating a program. Value operator
// failures and builtin failures are kept in Err.
type EvalError struct {
	Code    string
	Message string
	Span    *diagnostics.Span
	// Which is the keyword or token that was expected, set for
	// E_EXPECTED_KEYWORD.
	Which string
	Err   error
}

func (e *EvalError) Error() string {
	return e.Message
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Diagnostic implements diagnostics.Coded.
func (e *EvalError) Diagnostic() diagnostics.Diagnostic {
	hint := ""
	if e.Code == diagnostics.EOperandNotBoolean {
		hint = "only true and false take part in logical operators and conditions"
	}
	return diagnostics.MakeDiag(e.Code, e.Message, e.Span, hint)
}

func spanOf(tok lexer.Token) *diagnostics.Span {
	span := tok.Span
	return &span
}

func newEvalError(code string, tok lexer.Token, format string, args ...any) *EvalError {
	return &EvalError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    spanOf(tok),
	}
}

func expectedKeyword(which string, got lexer.Token) *EvalError {
	err := newEvalError(diagnostics.EExpectedKeyword, got, "'%s' expected near %s", which, got)
	err.Which = which
	return err
}

// wrapOpError attaches the operator position to a value-layer error.
func wrapOpError(err error, at lexer.Token) error {
	var opErr *value.OpError
	if !errors.As(err, &opErr) {
		return err
	}
	return &EvalError{
		Code:    opErr.Code,
		Message: opErr.Error(),
		Span:    spanOf(at),
		Err:     err,
	}
}
