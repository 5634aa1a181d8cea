package evaluator

import (
	"github.com/shvrma/lualike/pkg/lexer"
)

// TokenSource yields tokens one at a time. *lexer.Tokenizer and *TokenSpan
// both satisfy it. Once exhausted a source keeps returning TokEOF.
type TokenSource interface {
	NextToken() (lexer.Token, error)
}

// cursor gives one token of lookahead over a TokenSource. The top-level
// evaluator and every nested arm evaluator share the same cursor.
type cursor struct {
	src    TokenSource
	peeked lexer.Token
	has    bool
}

func newCursor(src TokenSource) *cursor {
	return &cursor{src: src}
}

func (c *cursor) peek() (lexer.Token, error) {
	if !c.has {
		tok, err := c.src.NextToken()
		if err != nil {
			return lexer.Token{}, err
		}
		c.peeked = tok
		c.has = true
	}
	return c.peeked, nil
}

func (c *cursor) next() (lexer.Token, error) {
	tok, err := c.peek()
	if err != nil {
		return lexer.Token{}, err
	}
	c.has = false
	return tok, nil
}

// accept consumes the next token if it has type t.
func (c *cursor) accept(t lexer.TokenType) (lexer.Token, bool, error) {
	tok, err := c.peek()
	if err != nil {
		return lexer.Token{}, false, err
	}
	if tok.Type != t {
		return tok, false, nil
	}
	c.has = false
	return tok, true, nil
}

// expect consumes a token of type t or fails with E_EXPECTED_KEYWORD.
func (c *cursor) expect(t lexer.TokenType) (lexer.Token, error) {
	tok, ok, err := c.accept(t)
	if err != nil {
		return lexer.Token{}, err
	}
	if !ok {
		return lexer.Token{}, expectedKeyword(t.String(), tok)
	}
	return tok, nil
}
