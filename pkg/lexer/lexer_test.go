package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/value"
)

// helper to tokenize and fail on error
func mustTokenize(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := Tokenize(source, "test.lua")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Type != TokEOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

// expectLexError asserts that tokenizing source fails with the given code.
func expectLexError(t *testing.T, source, code string) *LexError {
	t.Helper()
	_, err := Tokenize(source, "test.lua")
	if err == nil {
		t.Fatalf("expected %s for %q, got nil", code, source)
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if lexErr.Code() != code {
		t.Errorf("code = %q, want %q (message: %s)", lexErr.Code(), code, lexErr.Error())
	}
	return lexErr
}

func expectTypes(t *testing.T, tokens []Token, expected ...TokenType) {
	t.Helper()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, e := range expected {
		if tokens[i].Type != e {
			t.Errorf("token %d: expected %v, got %v", i, e, tokens[i].Type)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Type != TokEOF {
		t.Errorf("expected TokEOF, got %v", tokens[0].Type)
	}
}

func TestEOFRepeats(t *testing.T) {
	s := New("x", "test.lua")
	if tok, err := s.NextToken(); err != nil || tok.Type != TokName {
		t.Fatalf("expected name, got %v (%v)", tok.Type, err)
	}
	for i := 0; i < 3; i++ {
		tok, err := s.NextToken()
		if err != nil || tok.Type != TokEOF {
			t.Fatalf("call %d: expected EOF, got %v (%v)", i, tok.Type, err)
		}
	}
}

func TestKeywords(t *testing.T) {
	for keyword, expected := range keywords {
		t.Run(keyword, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, keyword)
			expectTypes(t, tokens, expected)
			if tokens[0].Text != keyword {
				t.Errorf("expected text %q, got %q", keyword, tokens[0].Text)
			}
			if tokens[0].Literal != nil {
				t.Errorf("keyword %q should carry no literal", keyword)
			}
		})
	}
}

func TestLiteralKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  value.Value
	}{
		{"nil", value.NewNil()},
		{"true", value.NewBool(true)},
		{"false", value.NewBool(false)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			expectTypes(t, tokens, TokLiteral)
			if !value.Equal(tokens[0].Literal, tt.want) {
				t.Errorf("literal = %v, want %v", tokens[0].Literal, tt.want)
			}
		})
	}
}

func TestKeywordVsName(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"if", TokIf},
		{"iffy", TokName},
		{"end", TokEnd},
		{"ending", TokName},
		{"local", TokLocal},
		{"locale", TokName},
		{"nil", TokLiteral},
		{"nile", TokName},
		{"true", TokLiteral},
		{"trueish", TokName},
		{"or", TokOr},
		{"order", TokName},
		{"_end", TokName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			expectTypes(t, tokens, tt.expected)
		})
	}
}

func TestNames(t *testing.T) {
	for _, input := range []string{"x", "empty_var", "fib_num_10", "_", "__init__", "camelCase", "a1b2c3"} {
		t.Run(input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, input)
			expectTypes(t, tokens, TokName)
			if tokens[0].Text != input {
				t.Errorf("expected text %q, got %q", input, tokens[0].Text)
			}
		})
	}
}

func TestNameLength(t *testing.T) {
	mustTokenizeNoEOF(t, strings.Repeat("a", DefaultMaxNameLength))
	expectLexError(t, strings.Repeat("a", DefaultMaxNameLength+1), diagnostics.ETooLongToken)

	tokens := mustTokenizeNoEOF(t, "function")
	if _, err := Tokenize("function", "test.lua", WithMaxNameLength(3)); err != nil {
		t.Errorf("keywords must not be subject to the name limit: %v", err)
	}
	expectTypes(t, tokens, TokFunction)

	long := strings.Repeat("b", 40)
	tokens, err := Tokenize(long, "test.lua", WithMaxNameLength(64))
	if err != nil {
		t.Fatalf("unexpected error with raised limit: %v", err)
	}
	if tokens[0].Text != long {
		t.Errorf("expected %q, got %q", long, tokens[0].Text)
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  value.Value
	}{
		{"0", value.NewInt(0)},
		{"34", value.NewInt(34)},
		{"007", value.NewInt(7)},
		{"9223372036854775807", value.NewInt(9223372036854775807)},
		{"3.14", value.NewFloat(3.14)},
		{"3,14", value.NewFloat(3.14)},
		{"4.0", value.NewFloat(4)},
		{"1.", value.NewFloat(1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			expectTypes(t, tokens, TokLiteral)
			if !value.Equal(tokens[0].Literal, tt.want) {
				t.Errorf("literal = %v (%s), want %v (%s)",
					tokens[0].Literal, tokens[0].Literal.Kind(), tt.want, tt.want.Kind())
			}
			if tokens[0].Text != tt.input {
				t.Errorf("text = %q, want %q", tokens[0].Text, tt.input)
			}
		})
	}
}

func TestCommaAfterNumberWithoutDigit(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "print(1, 2)")
	expectTypes(t, tokens, TokName, TokLParen, TokLiteral, TokComma, TokLiteral, TokRParen)
	if !value.Equal(tokens[2].Literal, value.NewInt(1)) {
		t.Errorf("first argument = %v, want 1", tokens[2].Literal)
	}
}

func TestInvalidNumbers(t *testing.T) {
	for _, input := range []string{"1.2.3", "1,2,3", "1.2,3", "12abc", "3_000", "99999999999999999999"} {
		t.Run(input, func(t *testing.T) {
			expectLexError(t, input, diagnostics.EInvalidNumber)
		})
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'2025'`, "2025"},
		{`""`, ""},
		{`"it's"`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{`"a\tb"`, "a\tb"},
		{`"line\n"`, "line\n"},
		{`"\a\b\f\r"`, "\a\b\f\r"},
		{`"back\\slash"`, `back\slash`},
		{`"q\"q"`, `q"q`},
		{`'q\'q'`, `q'q`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			expectTypes(t, tokens, TokLiteral)
			if !value.Equal(tokens[0].Literal, value.NewString(tt.want)) {
				t.Errorf("literal = %q, want %q", tokens[0].Literal, tt.want)
			}
		})
	}
}

func TestStringErrors(t *testing.T) {
	expectLexError(t, `"unterminated`, diagnostics.EUnterminatedString)
	expectLexError(t, "\"broken\nline\"", diagnostics.EUnterminatedString)
	expectLexError(t, `"escape at end\`, diagnostics.EUnterminatedString)
	expectLexError(t, `'mismatched"`, diagnostics.EUnterminatedString)
	expectLexError(t, `"bad \q escape"`, diagnostics.EUnrecognizedEscape)
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"+", TokPlus}, {"-", TokMinus}, {"*", TokStar}, {"/", TokSlash},
		{"//", TokDoubleSlash}, {"%", TokPercent}, {"^", TokCaret},
		{"==", TokEqEq}, {"~=", TokTildeEq}, {"<=", TokLtEq}, {">=", TokGtEq},
		{"<", TokLt}, {">", TokGt}, {"=", TokEquals},
		{"(", TokLParen}, {")", TokRParen}, {"{", TokLBrace}, {"}", TokRBrace},
		{"[", TokLBracket}, {"]", TokRBracket}, {";", TokSemicolon},
		{":", TokColon}, {",", TokComma}, {".", TokDot},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			expectTypes(t, tokens, tt.expected)
		})
	}
}

func TestOperatorDisambiguation(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"===", []TokenType{TokEqEq, TokEquals}},
		{"<==", []TokenType{TokLtEq, TokEquals}},
		{"a//b", []TokenType{TokName, TokDoubleSlash, TokName}},
		{"a/ /b", []TokenType{TokName, TokSlash, TokSlash, TokName}},
		{"x~=y", []TokenType{TokName, TokTildeEq, TokName}},
		{"1 + 2 * -3", []TokenType{TokLiteral, TokPlus, TokLiteral, TokStar, TokMinus, TokLiteral}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTypes(t, mustTokenizeNoEOF(t, tt.input), tt.expected...)
		})
	}
}

func TestInvalidSymbols(t *testing.T) {
	for _, input := range []string{"~", "@", "$", "!", "a ? b", "`"} {
		t.Run(input, func(t *testing.T) {
			expectLexError(t, input, diagnostics.EInvalidSymbol)
		})
	}
}

func TestComments(t *testing.T) {
	t.Run("comment line before statement", func(t *testing.T) {
		tokens := mustTokenizeNoEOF(t, "-- Very meaningful variable\nlocal curr_year = '2025'")
		expectTypes(t, tokens, TokLocal, TokName, TokEquals, TokLiteral)
		if !value.Equal(tokens[3].Literal, value.NewString("2025")) {
			t.Errorf("literal = %v, want '2025'", tokens[3].Literal)
		}
	})

	t.Run("trailing comment", func(t *testing.T) {
		tokens := mustTokenizeNoEOF(t, "x = 1 -- set x")
		expectTypes(t, tokens, TokName, TokEquals, TokLiteral)
	})

	t.Run("comment only", func(t *testing.T) {
		tokens := mustTokenize(t, "-- nothing here")
		expectTypes(t, tokens, TokEOF)
	})

	t.Run("minus is not a comment", func(t *testing.T) {
		tokens := mustTokenizeNoEOF(t, "a - -b")
		expectTypes(t, tokens, TokName, TokMinus, TokMinus, TokName)
	})

	t.Run("comment hides invalid symbols", func(t *testing.T) {
		tokens := mustTokenizeNoEOF(t, "-- @ $ ~\nreturn")
		expectTypes(t, tokens, TokReturn)
	})
}

func TestWhitespace(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, " \t\n\r\n\f\v local \t x ")
	expectTypes(t, tokens, TokLocal, TokName)

	tokens = mustTokenize(t, "   \t\n  \r\n  ")
	expectTypes(t, tokens, TokEOF)
}

func TestTokenizeStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"local function and", []TokenType{TokLocal, TokFunction, TokAnd}},
		{"local empty_var = nil", []TokenType{TokLocal, TokName, TokEquals, TokLiteral}},
		{"local function empty_func() end",
			[]TokenType{TokLocal, TokFunction, TokName, TokLParen, TokRParen, TokEnd}},
		{"if cond then return 3.14 else return -1 end",
			[]TokenType{TokIf, TokName, TokThen, TokReturn, TokLiteral, TokElse, TokReturn, TokMinus, TokLiteral, TokEnd}},
		{"return;", []TokenType{TokReturn, TokSemicolon}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTypes(t, mustTokenizeNoEOF(t, tt.input), tt.expected...)
		})
	}
}

func TestSpanTracking(t *testing.T) {
	input := "local x = 42\nreturn x"
	tokens := mustTokenizeNoEOF(t, input)
	expectations := []struct {
		tokType   TokenType
		text      string
		startLine int
		startCol  int
	}{
		{TokLocal, "local", 1, 1},
		{TokName, "x", 1, 7},
		{TokEquals, "=", 1, 9},
		{TokLiteral, "42", 1, 11},
		{TokReturn, "return", 2, 1},
		{TokName, "x", 2, 8},
	}

	if len(tokens) != len(expectations) {
		t.Fatalf("expected %d tokens, got %d", len(expectations), len(tokens))
	}
	for i, exp := range expectations {
		tok := tokens[i]
		if tok.Type != exp.tokType || tok.Text != exp.text {
			t.Errorf("token %d: expected %v %q, got %v %q", i, exp.tokType, exp.text, tok.Type, tok.Text)
		}
		if tok.Span.StartLine != exp.startLine || tok.Span.StartCol != exp.startCol {
			t.Errorf("token %d: expected (%d,%d), got (%d,%d)", i,
				exp.startLine, exp.startCol, tok.Span.StartLine, tok.Span.StartCol)
		}
		if tok.Span.File != "test.lua" {
			t.Errorf("token %d: expected file test.lua, got %q", i, tok.Span.File)
		}
	}
}

func TestErrorSpanPosition(t *testing.T) {
	lexErr := expectLexError(t, "x = 1\ny = @", diagnostics.EInvalidSymbol)
	span := lexErr.Diag.Span
	if span == nil {
		t.Fatal("expected span on lex error")
	}
	if span.StartLine != 2 || span.StartCol != 5 {
		t.Errorf("expected error at (2,5), got (%d,%d)", span.StartLine, span.StartCol)
	}
}

func TestTokenTypeString(t *testing.T) {
	if got := TokEnd.String(); got != "end" {
		t.Errorf("TokEnd.String() = %q, want %q", got, "end")
	}
	if got := TokRParen.String(); got != "')'" {
		t.Errorf("TokRParen.String() = %q, want %q", got, "')'")
	}
	if got := TokEOF.String(); got != "end of input" {
		t.Errorf("TokEOF.String() = %q, want %q", got, "end of input")
	}
}
