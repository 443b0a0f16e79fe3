// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package httperr carries HTTP status codes on errors and renders them as JSON
error responses.

Lower layers return plain errors; the server attaches a status with
WithCode and writes the response with Write:

	if errors.Is(err, procenv.ErrInvalidProcess) {
		err = httperr.WithCode(err, http.StatusBadRequest)
	}
	httperr.Write(w, err)

Code walks the error chain, so wrapping with fmt.Errorf("...: %w") keeps the
status. An error without a code is a 500.
*/
package httperr
