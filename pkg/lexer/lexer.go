// Package lexer implements the lualike tokenizer. A Tokenizer produces tokens
// lazily, one per NextToken call, so callers never hold more of the program
// than they have asked for.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/value"
)

// DefaultMaxNameLength is the longest identifier accepted unless
// WithMaxNameLength says otherwise.
const DefaultMaxNameLength = 16

// Tokenizer is a forward-only cursor over source text. It is not
// restartable; re-tokenizing requires a new Tokenizer over the same text.
type Tokenizer struct {
	source   string
	filename string
	pos      int
	line     int
	col      int

	maxNameLength int
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxNameLength sets the identifier length limit. Values below one are
// ignored.
func WithMaxNameLength(n int) Option {
	return func(s *Tokenizer) {
		if n > 0 {
			s.maxNameLength = n
		}
	}
}

// New creates a Tokenizer over source. filename is only used in spans.
func New(source, filename string, opts ...Option) *Tokenizer {
	s := &Tokenizer{
		source:        source,
		filename:      filename,
		pos:           0,
		line:          1,
		col:           1,
		maxNameLength: DefaultMaxNameLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Tokenizer) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *Tokenizer) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Tokenizer) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *Tokenizer) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *Tokenizer) span(startLine, startCol int) diagnostics.Span {
	return diagnostics.Span{
		File:      s.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func (s *Tokenizer) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if isSpace(ch) {
			s.advance()
		} else if ch == '-' && s.peekAt(1) == '-' {
			// Line comment, the newline itself is left for the next pass.
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			break
		}
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

var escapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func (s *Tokenizer) scanString() (Token, error) {
	startLine, startCol := s.line, s.col
	startPos := s.pos
	delimiter := s.advance()

	var buf strings.Builder
	for !s.atEnd() {
		ch := s.peek()
		switch ch {
		case delimiter:
			s.advance()
			return Token{
				Type:    TokLiteral,
				Text:    s.source[startPos:s.pos],
				Literal: value.NewString(buf.String()),
				Span:    s.span(startLine, startCol),
			}, nil
		case '\n':
			return Token{}, s.lexError(diagnostics.EUnterminatedString, startLine, startCol,
				"unfinished string: newline before closing quote")
		case '\\':
			escLine, escCol := s.line, s.col
			s.advance()
			if s.atEnd() {
				return Token{}, s.lexError(diagnostics.EUnterminatedString, startLine, startCol,
					"unfinished string: input ends inside an escape")
			}
			esc := s.advance()
			mapped, ok := escapes[esc]
			if !ok {
				return Token{}, s.lexError(diagnostics.EUnrecognizedEscape, escLine, escCol,
					fmt.Sprintf("invalid escape sequence '\\%c'", esc))
			}
			buf.WriteByte(mapped)
		default:
			buf.WriteByte(s.advance())
		}
	}
	return Token{}, s.lexError(diagnostics.EUnterminatedString, startLine, startCol,
		"unfinished string: missing closing quote")
}

// scanNumber reads digits with at most one fractional separator. A ','
// counts as a separator only when a digit follows it.
func (s *Tokenizer) scanNumber() (Token, error) {
	startLine, startCol := s.line, s.col
	startPos := s.pos
	separators := 0

scan:
	for !s.atEnd() {
		ch := s.peek()
		switch {
		case isDigit(ch):
			s.advance()
		case ch == '.' || (ch == ',' && isDigit(s.peekAt(1))):
			s.advance()
			separators++
			if separators > 1 {
				return Token{}, s.lexError(diagnostics.EInvalidNumber, startLine, startCol,
					fmt.Sprintf("malformed number near '%s'", s.source[startPos:s.pos]))
			}
		default:
			break scan
		}
	}

	if isAlpha(s.peek()) {
		for !s.atEnd() && isAlphaNumeric(s.peek()) {
			s.advance()
		}
		return Token{}, s.lexError(diagnostics.EInvalidNumber, startLine, startCol,
			fmt.Sprintf("malformed number near '%s'", s.source[startPos:s.pos]))
	}

	text := s.source[startPos:s.pos]
	var lit value.Value
	if separators == 0 {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, s.lexError(diagnostics.EInvalidNumber, startLine, startCol,
				fmt.Sprintf("malformed number near '%s'", text))
		}
		lit = value.NewInt(n)
	} else {
		f, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
		if err != nil {
			return Token{}, s.lexError(diagnostics.EInvalidNumber, startLine, startCol,
				fmt.Sprintf("malformed number near '%s'", text))
		}
		lit = value.NewFloat(f)
	}

	return Token{
		Type:    TokLiteral,
		Text:    text,
		Literal: lit,
		Span:    s.span(startLine, startCol),
	}, nil
}

func (s *Tokenizer) scanNameOrKeyword() (Token, error) {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[startPos:s.pos]
	if tokType, ok := keywords[text]; ok {
		return Token{Type: tokType, Text: text, Span: s.span(startLine, startCol)}, nil
	}
	if lit, ok := literalKeywords[text]; ok {
		return Token{Type: TokLiteral, Text: text, Literal: lit, Span: s.span(startLine, startCol)}, nil
	}

	// Reserved words are exempt from the limit.
	if len(text) > s.maxNameLength {
		return Token{}, s.lexError(diagnostics.ETooLongToken, startLine, startCol,
			fmt.Sprintf("name '%s' is longer than %d characters", text, s.maxNameLength))
	}
	return Token{Type: TokName, Text: text, Span: s.span(startLine, startCol)}, nil
}

func (s *Tokenizer) scanOperator() (Token, bool) {
	startLine, startCol := s.line, s.col
	for _, width := range []int{2, 1} {
		if s.pos+width > len(s.source) {
			continue
		}
		text := s.source[s.pos : s.pos+width]
		if tokType, ok := operators[text]; ok {
			for i := 0; i < width; i++ {
				s.advance()
			}
			return Token{Type: tokType, Text: text, Span: s.span(startLine, startCol)}, true
		}
	}
	return Token{}, false
}

func (s *Tokenizer) lexError(code string, line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		code,
		msg,
		&diagnostics.Span{File: s.filename, StartLine: line, StartCol: col, EndLine: s.line, EndCol: s.col},
		"",
	)
	return &LexError{Diag: diag}
}

// LexError wraps a diagnostic for tokenizer errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

// Code returns the diagnostic code of the error.
func (e *LexError) Code() string {
	return e.Diag.Code
}

// Diagnostic implements diagnostics.Coded.
func (e *LexError) Diagnostic() diagnostics.Diagnostic {
	return e.Diag
}

// NextToken scans and returns the next token. Once the input is exhausted
// it keeps returning a TokEOF token.
func (s *Tokenizer) NextToken() (Token, error) {
	s.skipWhitespaceAndComments()

	if s.atEnd() {
		return Token{
			Type: TokEOF,
			Text: "",
			Span: s.span(s.line, s.col),
		}, nil
	}

	ch := s.peek()
	startLine, startCol := s.line, s.col

	switch {
	case isDigit(ch):
		return s.scanNumber()
	case ch == '"' || ch == '\'':
		return s.scanString()
	case isAlpha(ch):
		return s.scanNameOrKeyword()
	}

	if tok, ok := s.scanOperator(); ok {
		return tok, nil
	}

	s.advance()
	return Token{}, s.lexError(diagnostics.EInvalidSymbol, startLine, startCol,
		fmt.Sprintf("unexpected symbol '%c'", ch))
}

// Tokenize drains a new Tokenizer over source into a slice that ends with
// the TokEOF token.
func Tokenize(source, filename string, opts ...Option) ([]Token, error) {
	s := New(source, filename, opts...)
	var tokens []Token

	for {
		tok, err := s.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			break
		}
	}

	return tokens, nil
}
