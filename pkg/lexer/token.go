package lexer

import (
	"fmt"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/value"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Keywords
	TokAnd TokenType = iota
	TokBreak
	TokDo
	TokElse
	TokElseif
	TokEnd
	TokFor
	TokFunction
	TokGoto
	TokIf
	TokIn
	TokLocal
	TokNot
	TokOr
	TokRepeat
	TokReturn
	TokThen
	TokUntil
	TokWhile

	// Names and literals (nil, true, false and numbers and strings)
	TokName
	TokLiteral

	// Arithmetic operators
	TokPlus        // +
	TokMinus       // -
	TokStar        // *
	TokSlash       // /
	TokDoubleSlash // //
	TokPercent     // %
	TokCaret       // ^

	// Comparison operators
	TokEqEq    // ==
	TokTildeEq // ~=
	TokLtEq    // <=
	TokGtEq    // >=
	TokLt      // <
	TokGt      // >

	// Punctuation
	TokEquals    // =
	TokLParen    // (
	TokRParen    // )
	TokLBrace    // {
	TokRBrace    // }
	TokLBracket  // [
	TokRBracket  // ]
	TokSemicolon // ;
	TokColon     // :
	TokComma     // ,
	TokDot       // .

	// Special
	TokEOF
)

var tokenNames = map[TokenType]string{
	TokName:        "name",
	TokLiteral:     "literal",
	TokPlus:        "'+'",
	TokMinus:       "'-'",
	TokStar:        "'*'",
	TokSlash:       "'/'",
	TokDoubleSlash: "'//'",
	TokPercent:     "'%'",
	TokCaret:       "'^'",
	TokEqEq:        "'=='",
	TokTildeEq:     "'~='",
	TokLtEq:        "'<='",
	TokGtEq:        "'>='",
	TokLt:          "'<'",
	TokGt:          "'>'",
	TokEquals:      "'='",
	TokLParen:      "'('",
	TokRParen:      "')'",
	TokLBrace:      "'{'",
	TokRBrace:      "'}'",
	TokLBracket:    "'['",
	TokRBracket:    "']'",
	TokSemicolon:   "';'",
	TokColon:       "':'",
	TokComma:       "','",
	TokDot:         "'.'",
	TokEOF:         "end of input",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if t.IsKeyword() {
		for kw, typ := range keywords {
			if typ == t {
				return kw
			}
		}
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// IsKeyword returns true if the token type is a keyword.
func (t TokenType) IsKeyword() bool {
	return t >= TokAnd && t <= TokWhile
}

// Token represents a single lexer token. Literal is set only for TokLiteral.
type Token struct {
	Type    TokenType
	Text    string
	Literal value.Value
	Span    diagnostics.Span
}

func (t Token) String() string {
	if t.Type == TokEOF {
		return t.Type.String()
	}
	return fmt.Sprintf("'%s'", t.Text)
}

var keywords = map[string]TokenType{
	"and":      TokAnd,
	"break":    TokBreak,
	"do":       TokDo,
	"else":     TokElse,
	"elseif":   TokElseif,
	"end":      TokEnd,
	"for":      TokFor,
	"function": TokFunction,
	"goto":     TokGoto,
	"if":       TokIf,
	"in":       TokIn,
	"local":    TokLocal,
	"not":      TokNot,
	"or":       TokOr,
	"repeat":   TokRepeat,
	"return":   TokReturn,
	"then":     TokThen,
	"until":    TokUntil,
	"while":    TokWhile,
}

// literalKeywords are reserved words that produce TokLiteral tokens.
var literalKeywords = map[string]value.Value{
	"nil":   value.NewNil(),
	"true":  value.NewBool(true),
	"false": value.NewBool(false),
}

// operators lists every operator spelling; two-character spellings are
// matched before their one-character prefixes.
var operators = map[string]TokenType{
	"//": TokDoubleSlash,
	"==": TokEqEq,
	"~=": TokTildeEq,
	"<=": TokLtEq,
	">=": TokGtEq,
	"+":  TokPlus,
	"-":  TokMinus,
	"*":  TokStar,
	"/":  TokSlash,
	"%":  TokPercent,
	"^":  TokCaret,
	"<":  TokLt,
	">":  TokGt,
	"=":  TokEquals,
	"(":  TokLParen,
	")":  TokRParen,
	"{":  TokLBrace,
	"}":  TokRBrace,
	"[":  TokLBracket,
	"]":  TokRBracket,
	";":  TokSemicolon,
	":":  TokColon,
	",":  TokComma,
	".":  TokDot,
}
