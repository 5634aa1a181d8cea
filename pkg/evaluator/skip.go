package evaluator

import (
	"fortio.org/log"
	"github.com/ahrtr/gocontainer/set"
	"github.com/edwingeng/deque"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/lexer"
)

// blockOpeners are the tokens that open a construct closed by 'end'.
var blockOpeners = newTokenSet(lexer.TokIf, lexer.TokDo, lexer.TokFunction)

func newTokenSet(types ...lexer.TokenType) set.Interface {
	s := set.New()
	for _, t := range types {
		s.Add(t)
	}
	return s
}

// Terminators is the set of tokens a skip scan stops at when it is not
// inside a nested block.
type Terminators struct {
	types set.Interface
	desc  string
}

// NewTerminators builds a terminator set. desc names the set in errors.
func NewTerminators(desc string, types ...lexer.TokenType) Terminators {
	return Terminators{types: newTokenSet(types...), desc: desc}
}

// Contains reports whether t terminates the scan.
func (t Terminators) Contains(tt lexer.TokenType) bool {
	return t.types.Contains(tt)
}

var untilElseOrEnd = NewTerminators("'else' or 'end'", lexer.TokElse, lexer.TokElseif, lexer.TokEnd)

// TokenSpan is an owned run of tokens captured by a skip scan. It replays
// them in order through NextToken and then reports TokEOF, so it can drive
// a new Evaluator.
type TokenSpan struct {
	tokens deque.Deque
	eof    lexer.Token
}

func newTokenSpan() *TokenSpan {
	return &TokenSpan{
		tokens: deque.NewDeque(),
		eof:    lexer.Token{Type: lexer.TokEOF},
	}
}

func (s *TokenSpan) push(tok lexer.Token) {
	s.tokens.PushBack(tok)
	s.eof = lexer.Token{
		Type: lexer.TokEOF,
		Span: diagnostics.Span{
			File:      tok.Span.File,
			StartLine: tok.Span.EndLine,
			StartCol:  tok.Span.EndCol,
			EndLine:   tok.Span.EndLine,
			EndCol:    tok.Span.EndCol,
		},
	}
}

// Len returns the number of tokens not yet replayed.
func (s *TokenSpan) Len() int {
	return s.tokens.Len()
}

// NextToken pops the next buffered token.
func (s *TokenSpan) NextToken() (lexer.Token, error) {
	if s.tokens.Empty() {
		return s.eof, nil
	}
	return s.tokens.PopFront().(lexer.Token), nil
}

// SkipUntil advances the cursor past tokens without evaluating them and
// stops in front of the first terminator found outside any nested block.
// The terminator itself is left unconsumed and returned. With keep set the
// skipped tokens are returned as a TokenSpan, otherwise they are discarded.
func (ev *Evaluator) SkipUntil(terms Terminators, keep bool) (lexer.Token, *TokenSpan, error) {
	var span *TokenSpan
	if keep {
		span = newTokenSpan()
	}

	depth := 0
	skipped := 0
	for {
		tok, err := ev.cur.peek()
		if err != nil {
			return lexer.Token{}, nil, err
		}
		if tok.Type == lexer.TokEOF {
			return lexer.Token{}, nil, newEvalError(diagnostics.EUnexpectedEOF, tok,
				"unexpected end of input, expected %s", terms.desc)
		}
		if depth == 0 && terms.Contains(tok.Type) {
			log.LogVf("skipped %d tokens up to %s", skipped, tok)
			ev.trace(TraceSkip, tok.Span, tok.Type.String())
			return tok, span, nil
		}

		ev.cur.next()
		skipped++
		if keep {
			span.push(tok)
		}

		switch {
		case blockOpeners.Contains(tok.Type):
			depth++
		case tok.Type == lexer.TokEnd && depth > 0:
			depth--
		}
	}
}
