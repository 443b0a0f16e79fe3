// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package cel compiles and evaluates CEL expressions over the environment of a
process.

Expressions see two variables:

  - env: map(string, string), the process environment
  - pid: int, the process id

# Basic Usage

	engine := cel.NewEngine()

	expr, err := engine.Compile(`"APP_ROLE" in env && env["APP_ROLE"] == "worker"`)
	if err != nil {
	    // handle compilation error
	}

	matched, err := expr.EvaluateBool(cel.Activation(1234, environ))

Check validates an expression without building a program, which is useful
when loading configuration.

# Error Handling

Compilation failures are returned as *CompileError with the failing stage
and line/column details:

	_, err := engine.Compile(`env["APP_ROLE"`)
	var compileErr *cel.CompileError
	if errors.As(err, &compileErr) {
	    fmt.Println(compileErr.Kind)     // cel.ErrKindParse
	    fmt.Println(compileErr.AsJSON()) // structured details
	}

# Limits

Expression length and evaluation cost are bounded. Use WithMaxExpressionLength
and WithCostLimit to change the defaults.

# Concurrency

Engine and CompiledExpression are safe for concurrent use.
*/
package cel
