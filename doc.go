// Package lualike is an evaluator for a small Lua-like scripting language:
// literals, arithmetic and logical operators, local and global variables,
// and if/else conditionals.
//
// Programs are evaluated in a single pass over a lazy token stream; see
// pkg/runtime for the Interpret and EvaluateExpression entry points.
package lualike
