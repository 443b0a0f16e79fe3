// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package server exposes a procenv.Reader over HTTP.

Routes:

	GET /healthz
	GET /v1/processes/{pid}/environment/{name}
	GET /v1/processes/{pid}/environment
	GET /v1/processes/{pid}/match?expr=<CEL>

Invalid input is answered with 400, a variable or environment that could not
be determined with 404 and an unsupported platform or strategy with 501.
Errors are JSON documents produced by httperr.Write. The server listens on
loopback by default; reading another process's environment is sensitive.
*/
package server
