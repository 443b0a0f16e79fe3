// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

// Status classifies the outcome of a lookup.
type Status int

const (
	// StatusNotFound means the command succeeded but the variable is absent.
	StatusNotFound Status = iota
	// StatusFound means Result.Value holds the variable's value.
	StatusFound
	// StatusCommandFailed means the diagnostic command or native facility
	// could not produce output.
	StatusCommandFailed
	// StatusParseError means the output could not be parsed.
	StatusParseError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusCommandFailed:
		return "command_failed"
	case StatusParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single lookup. The zero value is "not found".
type Result struct {
	Status Status
	Value  string
	// Detail describes why no value was produced. Empty when found.
	Detail string
}

// Get collapses the result to a value and a found flag.
func (r Result) Get() (string, bool) {
	if r.Status != StatusFound {
		return "", false
	}
	return r.Value, true
}

// Found returns a found result holding value.
func Found(value string) Result {
	return Result{Status: StatusFound, Value: value}
}

// NotFound returns a not-found result.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

func commandFailed(err error) Result {
	return Result{Status: StatusCommandFailed, Detail: err.Error()}
}

func parseError(err error) Result {
	return Result{Status: StatusParseError, Detail: err.Error()}
}

// enumerated is the Result an Enumerator returns with a usable map.
var enumerated = Result{Status: StatusFound}
