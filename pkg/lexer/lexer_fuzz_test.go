package lexer

import (
	"testing"
)

// FuzzTokenize feeds random inputs to the tokenizer to catch panics.
// Invalid input must come back as an error, never a panic.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		// Keywords
		`and break do else elseif end for function goto`,
		`if in local not or repeat return then until while`,
		`true false nil`,
		// Literals
		`42 3.14 3,14 -1 0 1.`,
		`"hello" 'single' "with\nescape" "quote\""`,
		// Operators
		`+ - * / // % ^ == ~= <= >= < > =`,
		// Punctuation
		`{ } [ ] ( ) ; : , .`,
		// Names
		`x foo bar_baz myVar _`,
		// Comments
		`-- this is a comment`,
		"x = 1 -- trailing\ny = 2",
		// Statements
		`local x = 42`,
		`if cond then return 3.14 else return -1 end`,
		// Edge cases
		``,
		`   `,
		"\t\n\r\f\v",
		`"unterminated`,
		`"""`,
		`'\`,
		`"\z"`,
		`@#$&!?`,
		`~`,
		`1.2.3`,
		`1,2,3`,
		`12abc`,
		`99999999999999999999`,
		`aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa`,
		"\x00\xff",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize panicked on input %q: %v", input, r)
				}
			}()
			tokens, err := Tokenize(input, "fuzz.lua")
			if err == nil && (len(tokens) == 0 || tokens[len(tokens)-1].Type != TokEOF) {
				t.Fatalf("token stream for %q does not end with EOF", input)
			}
		}()
	})
}
