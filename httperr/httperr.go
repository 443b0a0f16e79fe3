// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// CodedError wraps an error with an HTTP status code.
type CodedError struct {
	err  error
	code int
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As() compatibility.
func (e *CodedError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *CodedError) HTTPCode() int {
	return e.code
}

// WithCode wraps an error with an HTTP status code.
// If err is nil, WithCode returns nil.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &CodedError{err: err, code: code}
}

// Code extracts the HTTP status code from an error chain.
// It returns 500 when the chain has no CodedError and 200 for nil.
func Code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.code
	}

	return http.StatusInternalServerError
}

// New creates a new error with the given message and HTTP status code.
func New(message string, code int) error {
	return &CodedError{err: errors.New(message), code: code}
}

// Body is the JSON document written for an error response.
type Body struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Write renders err as a JSON error response with the status from Code.
// Server errors hide their message behind the status text.
func Write(w http.ResponseWriter, err error) {
	code := Code(err)
	msg := http.StatusText(code)
	if code < http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Body{Error: msg, Status: code})
}
