// Package evaluator runs lualike programs straight off the token stream.
// Expressions are evaluated by precedence climbing as they are read, and
// statements are executed one at a time; no syntax tree is built. The arm
// of a conditional that is not taken is passed over by a bracket-matching
// skip scan.
package evaluator

import (
	"fortio.org/log"

	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/lexer"
	"github.com/shvrma/lualike/pkg/value"
)

// State is the state of a block execution.
type State int

const (
	Scanning State = iota
	Returning
	Exhausted
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Returning:
		return "returning"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// BlockResult is how a block finished. Value is set only for a Returning
// block whose return statement carried an expression.
type BlockResult struct {
	State State
	Value value.Value
}

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceStmtStart TraceEventType = "stmt_start"
	TraceBranch    TraceEventType = "branch"
	TraceSkip      TraceEventType = "skip"
	TraceReturn    TraceEventType = "return"
)

// TraceEvent is a single trace event emitted during execution.
type TraceEvent struct {
	Event  TraceEventType
	Span   diagnostics.Span
	Detail string
	Depth  int
}

// Options configures an Evaluator.
type Options struct {
	Trace func(event TraceEvent)
}

// Evaluator executes statements and expressions read from a TokenSource.
type Evaluator struct {
	cur   *cursor
	env   *Env
	opts  Options
	depth int
}

// New creates an Evaluator reading from src. The top-level block gets an
// empty local scope over globals.
func New(src TokenSource, globals *Globals, opts Options) *Evaluator {
	return &Evaluator{
		cur:  newCursor(src),
		env:  NewEnv(globals),
		opts: opts,
	}
}

// nested returns an evaluator for an inner block: same cursor, same
// globals, fresh locals.
func (ev *Evaluator) nested() *Evaluator {
	return &Evaluator{
		cur:   ev.cur,
		env:   ev.env.Child(),
		opts:  ev.opts,
		depth: ev.depth + 1,
	}
}

// Env returns the scope of the evaluator's block.
func (ev *Evaluator) Env() *Env {
	return ev.env
}

func (ev *Evaluator) trace(event TraceEventType, span diagnostics.Span, detail string) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{Event: event, Span: span, Detail: detail, Depth: ev.depth})
	}
}

// Run executes the whole program as a block. A block that stops on a
// token the statement grammar does not know is not an error; the rest of
// the input is left unread and a warning is logged.
func (ev *Evaluator) Run() (BlockResult, error) {
	res, err := ev.ExecuteBlock()
	if err != nil {
		return BlockResult{}, err
	}
	if res.State == Exhausted {
		tok, err := ev.cur.peek()
		if err != nil {
			return BlockResult{}, err
		}
		if tok.Type != lexer.TokEOF {
			log.Warnf("execution stopped at %s (%s), remaining input ignored", tok, tok.Span)
		}
	}
	return res, nil
}

// EvaluateExpression reads one expression that must span the whole input.
func (ev *Evaluator) EvaluateExpression() (value.Value, error) {
	v, err := ev.ReadExpression()
	if err != nil {
		return nil, err
	}
	if _, err := ev.cur.expect(lexer.TokEOF); err != nil {
		return nil, err
	}
	return v, nil
}

// ExecuteBlock runs statements until one returns or the next token does
// not start a statement. The stopping token is not consumed.
func (ev *Evaluator) ExecuteBlock() (BlockResult, error) {
	for {
		res, err := ev.executeStatement()
		if err != nil {
			return BlockResult{}, err
		}
		if res.State != Scanning {
			return res, nil
		}
	}
}

var scanning = BlockResult{State: Scanning}

func (ev *Evaluator) executeStatement() (BlockResult, error) {
	tok, err := ev.cur.peek()
	if err != nil {
		return BlockResult{}, err
	}

	switch tok.Type {
	case lexer.TokSemicolon:
		ev.cur.next()
		return scanning, nil
	case lexer.TokLocal:
		ev.trace(TraceStmtStart, tok.Span, "local")
		return scanning, ev.executeLocal()
	case lexer.TokName:
		ev.trace(TraceStmtStart, tok.Span, tok.Text)
		return scanning, ev.executeNameStatement()
	case lexer.TokReturn:
		ev.trace(TraceStmtStart, tok.Span, "return")
		return ev.executeReturn()
	case lexer.TokIf:
		ev.trace(TraceStmtStart, tok.Span, "if")
		return ev.executeIf()
	}

	log.LogVf("block at depth %d exhausted at %s", ev.depth, tok)
	return BlockResult{State: Exhausted}, nil
}

// executeLocal handles 'local name [= expr]'.
func (ev *Evaluator) executeLocal() error {
	ev.cur.next()
	name, err := ev.cur.peek()
	if err != nil {
		return err
	}
	if name.Type != lexer.TokName {
		return expectedKeyword("name", name)
	}
	ev.cur.next()

	var val value.Value = value.NewNil()
	if _, ok, err := ev.cur.accept(lexer.TokEquals); err != nil {
		return err
	} else if ok {
		if val, err = ev.ReadExpression(); err != nil {
			return err
		}
	}

	if !ev.env.Declare(name.Text, val) {
		return newEvalError(diagnostics.ERedeclarationOfLocal, name,
			"local '%s' is already declared in this block", name.Text)
	}
	log.LogVf("local %s = %s", name.Text, val)
	return nil
}

// executeNameStatement handles 'name = expr' and 'name(args)'.
func (ev *Evaluator) executeNameStatement() error {
	name, _ := ev.cur.next()
	next, err := ev.cur.peek()
	if err != nil {
		return err
	}

	switch next.Type {
	case lexer.TokEquals:
		ev.cur.next()
		val, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		ev.env.Assign(name.Text, val)
		log.LogVf("global %s = %s", name.Text, val)
		return nil
	case lexer.TokLParen:
		_, err := ev.call(name)
		return err
	}
	return expectedKeyword("=", next)
}

// noReturnValue holds the tokens after which 'return' carries no value.
var noReturnValue = newTokenSet(
	lexer.TokSemicolon, lexer.TokEOF, lexer.TokEnd,
	lexer.TokElse, lexer.TokElseif, lexer.TokUntil,
)

func (ev *Evaluator) executeReturn() (BlockResult, error) {
	ret, _ := ev.cur.next()
	next, err := ev.cur.peek()
	if err != nil {
		return BlockResult{}, err
	}

	res := BlockResult{State: Returning}
	if !noReturnValue.Contains(next.Type) {
		if res.Value, err = ev.ReadExpression(); err != nil {
			return BlockResult{}, err
		}
	}
	if _, _, err := ev.cur.accept(lexer.TokSemicolon); err != nil {
		return BlockResult{}, err
	}
	// a top-level return ends the program
	if ev.depth == 0 {
		if _, err := ev.cur.expect(lexer.TokEOF); err != nil {
			return BlockResult{}, err
		}
	}

	detail := "no value"
	if res.Value != nil {
		detail = res.Value.String()
	}
	ev.trace(TraceReturn, ret.Span, detail)
	return res, nil
}

// executeIf handles 'if cond then block [else block] end'. Exactly one arm
// runs; the other is skipped without being evaluated.
func (ev *Evaluator) executeIf() (BlockResult, error) {
	ifTok, _ := ev.cur.next()
	condTok, err := ev.cur.peek()
	if err != nil {
		return BlockResult{}, err
	}
	cond, err := ev.ReadExpression()
	if err != nil {
		return BlockResult{}, err
	}
	taken, ok := cond.(value.Bool)
	if !ok {
		return BlockResult{}, &EvalError{
			Code:    diagnostics.EOperandNotBoolean,
			Message: "if condition is not a boolean (got " + cond.Kind().String() + ")",
			Span:    spanOf(condTok),
			Err:     &value.OpError{Code: diagnostics.EOperandNotBoolean, Op: "if", Kind: cond.Kind()},
		}
	}
	if _, err := ev.cur.expect(lexer.TokThen); err != nil {
		return BlockResult{}, err
	}

	if taken.Value {
		log.LogVf("if at %s: then arm taken", ifTok.Span)
		ev.trace(TraceBranch, ifTok.Span, "then")
		return ev.runArm(true)
	}

	log.LogVf("if at %s: then arm skipped", ifTok.Span)
	stop, _, err := ev.SkipUntil(untilElseOrEnd, false)
	if err != nil {
		return BlockResult{}, err
	}
	switch stop.Type {
	case lexer.TokElse:
		ev.cur.next()
		ev.trace(TraceBranch, stop.Span, "else")
		return ev.runArm(false)
	case lexer.TokEnd:
		ev.cur.next()
		return scanning, nil
	}
	return BlockResult{}, expectedKeyword("end", stop)
}

// runArm executes the arm under the cursor in a nested block and consumes
// everything up to and including the closing 'end'. A returning arm makes
// the whole if statement return. Only the then arm may be followed by a
// single 'else'.
func (ev *Evaluator) runArm(thenArm bool) (BlockResult, error) {
	res, err := ev.nested().ExecuteBlock()
	if err != nil {
		return BlockResult{}, err
	}

	if res.State == Returning {
		if _, _, err := ev.SkipUntil(untilElseOrEnd, false); err != nil {
			return BlockResult{}, err
		}
	} else {
		res = scanning
	}
	if thenArm {
		if _, ok, err := ev.cur.accept(lexer.TokElse); err != nil {
			return BlockResult{}, err
		} else if ok {
			if _, _, err := ev.SkipUntil(untilElseOrEnd, false); err != nil {
				return BlockResult{}, err
			}
		}
	}

	if _, err := ev.cur.expect(lexer.TokEnd); err != nil {
		return BlockResult{}, err
	}
	return res, nil
}
