// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=strategy.go -destination=mocks/mock_strategy.go -package=mocks Strategy,Enumerator

import "context"

// Strategy looks up one environment variable of a foreign process.
// Implementations never return errors: every failure is folded into the
// Result.
type Strategy interface {
	Lookup(ctx context.Context, pid int, name string) Result
}

// Enumerator is implemented by strategies that obtain the whole environment
// of a process. On success the Result has StatusFound.
type Enumerator interface {
	Environ(ctx context.Context, pid int) (map[string]string, Result)
}

// lookupIn resolves name in an enumerated environment.
func lookupIn(environ map[string]string, res Result, name string) Result {
	if res.Status != StatusFound {
		return res
	}
	value, found := environ[name]
	if !found {
		return NotFound()
	}
	return Found(value)
}
