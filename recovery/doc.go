// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package recovery provides panic recovery middleware for HTTP handlers.
//
// A panicking handler is answered with a 500 JSON error and the panic value
// and stack are logged, so one bad request cannot take the server down.
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", handler)
//	http.ListenAndServe(addr, recovery.Middleware(logger)(mux))
package recovery
