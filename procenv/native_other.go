// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package procenv

const nativeFoldCase = false

func nativeEnviron(int) ([]string, error) {
	return nil, ErrNativeUnavailable
}
