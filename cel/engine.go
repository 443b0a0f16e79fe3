// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

const (
	// DefaultMaxExpressionLength is the maximum allowed length for a CEL expression.
	DefaultMaxExpressionLength = 4096

	// DefaultCostLimit is the default runtime cost limit for CEL program evaluation.
	// Environments of a few thousand variables stay well below it.
	DefaultCostLimit = 1000000
)

// Variable names available to expressions.
const (
	VarEnv = "env"
	VarPID = "pid"
)

// Engine compiles expressions against the process environment declarations.
type Engine struct {
	env                 func() (*cel.Env, error)
	maxExpressionLength int
	costLimit           uint64
}

// CompiledExpression is a checked CEL program ready for evaluation.
type CompiledExpression struct {
	source  string
	program cel.Program
}

// Source returns the original expression source string.
func (ce *CompiledExpression) Source() string {
	return ce.source
}

// NewEngine creates an engine declaring env and pid. Extra options are
// passed to cel.NewEnv after the built-in declarations.
func NewEngine(options ...cel.EnvOption) *Engine {
	opts := append([]cel.EnvOption{
		cel.Variable(VarEnv, cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable(VarPID, cel.IntType),
	}, options...)

	return &Engine{
		env: sync.OnceValues(func() (*cel.Env, error) {
			return cel.NewEnv(opts...)
		}),
		maxExpressionLength: DefaultMaxExpressionLength,
		costLimit:           DefaultCostLimit,
	}
}

// WithMaxExpressionLength sets the maximum allowed expression length.
func (e *Engine) WithMaxExpressionLength(maxLen int) *Engine {
	e.maxExpressionLength = maxLen
	return e
}

// WithCostLimit sets the runtime cost limit for evaluation.
func (e *Engine) WithCostLimit(limit uint64) *Engine {
	e.costLimit = limit
	return e
}

// Compile parses, type-checks and plans expr.
//
// Returns an error wrapping ErrExpressionCheck if the expression is too long,
// or a *CompileError for syntax and type errors.
func (e *Engine) Compile(expr string) (*CompiledExpression, error) {
	env, checked, err := e.check(expr)
	if err != nil {
		return nil, err
	}

	program, err := env.Program(checked, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", expr, err)
	}

	return &CompiledExpression{source: expr, program: program}, nil
}

// CompileBool is Compile for expressions that must evaluate to a bool.
func (e *Engine) CompileBool(expr string) (*CompiledExpression, error) {
	env, checked, err := e.check(expr)
	if err != nil {
		return nil, err
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression %q has type %s, want bool",
			ErrExpressionCheck, expr, checked.OutputType())
	}

	program, err := env.Program(checked, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", expr, err)
	}

	return &CompiledExpression{source: expr, program: program}, nil
}

// Check reports whether expr would compile.
func (e *Engine) Check(expr string) error {
	_, _, err := e.check(expr)
	return err
}

func (e *Engine) check(expr string) (*cel.Env, *cel.Ast, error) {
	if len(expr) > e.maxExpressionLength {
		return nil, nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionCheck, len(expr), e.maxExpressionLength)
	}

	env, err := e.env()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get CEL environment: %w", err)
	}

	parsed, issues := env.Parse(expr)
	if issues.Err() != nil {
		return nil, nil, newCompileError(ErrKindParse, expr, issues)
	}

	checked, issues := env.Check(parsed)
	if issues.Err() != nil {
		return nil, nil, newCompileError(ErrKindCheck, expr, issues)
	}

	return env, checked, nil
}

// Activation builds the variable bindings for a process.
func Activation(pid int, environ map[string]string) map[string]any {
	if environ == nil {
		environ = map[string]string{}
	}
	return map[string]any{
		VarEnv: environ,
		VarPID: pid,
	}
}

// Evaluate runs the program against vars.
func (ce *CompiledExpression) Evaluate(vars map[string]any) (any, error) {
	out, _, err := ce.program.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}
	return out.Value(), nil
}

// EvaluateBool runs the program and requires a boolean result.
func (ce *CompiledExpression) EvaluateBool(vars map[string]any) (bool, error) {
	result, err := ce.Evaluate(vars)
	if err != nil {
		return false, err
	}

	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidResult, result)
	}
	return b, nil
}
