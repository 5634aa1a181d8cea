package stdlib

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shvrma/lualike/pkg/value"
)

// RegisterDefaults adds all builtins. print writes to out, or to os.Stdout
// when out is nil.
func RegisterDefaults(r *Registry, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	r.Register(Fn{Name: "print", Execute: Print(out)})
	r.Register(Fn{Name: "type", Execute: stdlibType})
	r.Register(Fn{Name: "tostring", Execute: stdlibToString})
}

// Print returns a print builtin writing to out. Arguments are rendered with
// String, separated by tabs and followed by a newline.
func Print(out io.Writer) value.BuiltinFunc {
	return func(args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = arg.String()
		}
		if _, err := io.WriteString(out, strings.Join(parts, "\t")+"\n"); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return value.NewNil(), nil
	}
}

func exactlyOne(name string, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
	}
	return args[0], nil
}

// type(v) → name of the value's type; integers and floats are both "number"
func stdlibType(args []value.Value) (value.Value, error) {
	v, err := exactlyOne("type", args)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case value.KindInt, value.KindFloat:
		return value.NewString("number"), nil
	}
	return value.NewString(v.Kind().String()), nil
}

// tostring(v) → v rendered as print would
func stdlibToString(args []value.Value) (value.Value, error) {
	v, err := exactlyOne("tostring", args)
	if err != nil {
		return nil, err
	}
	return value.NewString(v.String()), nil
}
