// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package http validates HTTP header names and values.

The server sets operator-configured response headers on every response;
they are checked here when the configuration is loaded so that a bad entry
fails at startup instead of producing a header injection:

	if err := http.ValidateHeaders(cfg.Server.ResponseHeaders); err != nil {
		return err
	}

The validators check for:
  - CRLF injection attempts (\r\n sequences)
  - Control characters
  - RFC 7230 token compliance for header names
  - Length limits (256 bytes for names, 8192 for values)
*/
package http
