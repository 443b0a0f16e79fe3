// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Sentinel errors for CEL operations.
var (
	// ErrExpressionCheck is returned when an expression fails syntax or type checking.
	ErrExpressionCheck = errors.New("CEL expression check failed")

	// ErrEvaluation is returned when evaluation fails, for example on a
	// missing map key.
	ErrEvaluation = errors.New("CEL expression evaluation failed")

	// ErrInvalidResult is returned when the expression returns an unexpected type.
	ErrInvalidResult = errors.New("CEL expression returned invalid result type")
)

// ErrKind identifies the compilation stage that failed.
type ErrKind string

const (
	// ErrKindParse indicates a syntax error.
	ErrKindParse ErrKind = "parse"
	// ErrKindCheck indicates a type checking error.
	ErrKindCheck ErrKind = "check"
)

// ErrInstance is one issue reported by the compiler.
type ErrInstance struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// CompileError is a parse or type-check failure with location details.
type CompileError struct {
	Kind   ErrKind       `json:"kind"`
	Source string        `json:"source,omitempty"`
	Errors []ErrInstance `json:"errors,omitempty"`

	original error
}

// Error implements the error interface.
func (ce *CompileError) Error() string {
	return fmt.Sprintf("CEL %s error in expression %q: %s", ce.Kind, ce.Source, ce.original)
}

// Unwrap returns the underlying error, which wraps ErrExpressionCheck.
func (ce *CompileError) Unwrap() error {
	return ce.original
}

// AsJSON returns the error details as a JSON string.
func (ce *CompileError) AsJSON() string {
	b, err := json.Marshal(ce)
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal JSON: %s"}`, err)
	}
	return string(b)
}

func newCompileError(kind ErrKind, source string, issues *cel.Issues) error {
	instances := make([]ErrInstance, 0, len(issues.Errors()))
	for _, err := range issues.Errors() {
		instances = append(instances, ErrInstance{
			Line: err.Location.Line(),
			Col:  err.Location.Column(),
			Msg:  err.Message,
		})
	}
	return &CompileError{
		Kind:     kind,
		Source:   source,
		Errors:   instances,
		original: fmt.Errorf("%w: %w", ErrExpressionCheck, issues.Err()),
	}
}
