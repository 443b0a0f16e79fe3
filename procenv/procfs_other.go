// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package procenv

import "errors"

var errProcfsUnavailable = errors.New("procfs is only available on linux")

func readProcfsEnviron(string, int) ([]string, error) {
	return nil, errProcfsUnavailable
}
