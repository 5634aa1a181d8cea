package evaluator

import (
	"fortio.org/log"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/lexer"
	"github.com/shvrma/lualike/pkg/value"
)

type binaryOp struct {
	precedence int
	rightAssoc bool
	apply      func(l, r value.Value) (value.Value, error)
}

var binaryOps = map[lexer.TokenType]binaryOp{
	lexer.TokOr:          {precedence: 1, apply: value.Or},
	lexer.TokAnd:         {precedence: 2, apply: value.And},
	lexer.TokLt:          {precedence: 3, apply: value.Lt},
	lexer.TokGt:          {precedence: 3, apply: value.Gt},
	lexer.TokLtEq:        {precedence: 3, apply: value.Le},
	lexer.TokGtEq:        {precedence: 3, apply: value.Ge},
	lexer.TokTildeEq:     {precedence: 3, apply: value.Ne},
	lexer.TokEqEq:        {precedence: 3, apply: value.Eq},
	lexer.TokPlus:        {precedence: 9, apply: value.Add},
	lexer.TokMinus:       {precedence: 9, apply: value.Sub},
	lexer.TokStar:        {precedence: 10, apply: value.Mul},
	lexer.TokSlash:       {precedence: 10, apply: value.Div},
	lexer.TokDoubleSlash: {precedence: 10, apply: value.FloorDiv},
	lexer.TokPercent:     {precedence: 10, apply: value.Mod},
	lexer.TokCaret:       {precedence: 11, rightAssoc: true, apply: value.Pow},
}

// ReadExpression reads and evaluates one full expression.
func (ev *Evaluator) ReadExpression() (value.Value, error) {
	return ev.readExpression(1)
}

// readExpression folds binary operators of at least minPrecedence into the
// value of the leading atom.
func (ev *Evaluator) readExpression(minPrecedence int) (value.Value, error) {
	left, err := ev.readAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := ev.cur.peek()
		if err != nil {
			return nil, err
		}
		op, ok := binaryOps[tok.Type]
		if !ok || op.precedence < minPrecedence {
			return left, nil
		}
		ev.cur.next()

		next := op.precedence + 1
		if op.rightAssoc {
			next = op.precedence
		}
		right, err := ev.readExpression(next)
		if err != nil {
			return nil, err
		}
		if left, err = op.apply(left, right); err != nil {
			return nil, wrapOpError(err, tok)
		}
	}
}

func (ev *Evaluator) readAtom() (value.Value, error) {
	tok, err := ev.cur.next()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.TokLiteral:
		return tok.Literal, nil

	case lexer.TokName:
		if _, ok, err := ev.cur.accept(lexer.TokLParen); err != nil {
			return nil, err
		} else if ok {
			return ev.callAfterParen(tok)
		}
		return ev.lookup(tok)

	case lexer.TokLParen:
		v, err := ev.readExpression(1)
		if err != nil {
			return nil, err
		}
		if _, ok, err := ev.cur.accept(lexer.TokRParen); err != nil {
			return nil, err
		} else if !ok {
			return nil, newEvalError(diagnostics.EUnclosedParenthesis, tok,
				"unclosed parenthesis opened at %s", tok.Span)
		}
		return v, nil

	case lexer.TokMinus:
		operand, err := ev.readAtom()
		if err != nil {
			return nil, err
		}
		v, err := value.Neg(operand)
		return v, wrapOpError(err, tok)

	case lexer.TokNot:
		operand, err := ev.readAtom()
		if err != nil {
			return nil, err
		}
		v, err := value.Not(operand)
		return v, wrapOpError(err, tok)

	case lexer.TokEOF:
		return nil, newEvalError(diagnostics.EExpectedExpression, tok,
			"unexpected end of input, expected an expression")
	}

	return nil, newEvalError(diagnostics.EExpectedExpression, tok,
		"unexpected symbol near %s, expected an expression", tok)
}

func (ev *Evaluator) lookup(name lexer.Token) (value.Value, error) {
	v, ok := ev.env.Lookup(name.Text)
	if !ok {
		return nil, newEvalError(diagnostics.EUnknownName, name, "unknown name '%s'", name.Text)
	}
	return v, nil
}

// call evaluates 'name(args)' with the cursor on the '('.
func (ev *Evaluator) call(name lexer.Token) (value.Value, error) {
	if _, err := ev.cur.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	return ev.callAfterParen(name)
}

func (ev *Evaluator) callAfterParen(name lexer.Token) (value.Value, error) {
	callee, err := ev.lookup(name)
	if err != nil {
		return nil, err
	}

	var args []value.Value
	if _, ok, err := ev.cur.accept(lexer.TokRParen); err != nil {
		return nil, err
	} else if !ok {
		for {
			arg, err := ev.readExpression(1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			sep, err := ev.cur.next()
			if err != nil {
				return nil, err
			}
			if sep.Type == lexer.TokRParen {
				break
			}
			if sep.Type != lexer.TokComma {
				return nil, newEvalError(diagnostics.EUnclosedParenthesis, sep,
					"unclosed argument list of '%s' near %s", name.Text, sep)
			}
		}
	}

	fn, ok := callee.(value.Builtin)
	if !ok {
		return nil, newEvalError(diagnostics.ENotCallable, name,
			"attempt to call '%s' (a %s value)", name.Text, callee.Kind())
	}
	log.LogVf("calling %s with %d args", fn.Name, len(args))
	result, err := fn.Fn(args)
	if err != nil {
		return nil, &EvalError{
			Code:    diagnostics.EBuiltin,
			Message: "error in '" + fn.Name + "': " + err.Error(),
			Span:    spanOf(name),
			Err:     err,
		}
	}
	if result == nil {
		result = value.NewNil()
	}
	return result, nil
}
