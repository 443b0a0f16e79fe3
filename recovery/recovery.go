// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/stacklok/procenv/httperr"
)

// Middleware returns middleware that recovers from panics, logs them on
// logger and answers 500 Internal Server Error. A nil logger uses
// slog.Default().
//
// http.ErrAbortHandler is re-raised so net/http can abort the response.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error("recovered from panic in http handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httperr.Write(w, httperr.New("panic", http.StatusInternalServerError))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
