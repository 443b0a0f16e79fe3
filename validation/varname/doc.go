// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package varname validates environment variable names received from outer
surfaces such as the CLI and the HTTP server.

The procenv library itself only rejects empty names. Names arriving from
users are held to stricter rules before they reach a lookup:

	if err := varname.ValidateName(name); err != nil {
		// reject the request
	}

Valid names must:
  - Be non-empty
  - Not contain '=' after the first character
  - Not contain control characters (including NUL)
  - Not have leading or trailing whitespace
  - Be at most 32767 bytes long

A leading '=' is allowed for the per-drive "=C:" variables of Windows.
*/
package varname
