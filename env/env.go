// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import "os"

// Reader defines an interface for environment variable access
type Reader interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

// OSReader implements Reader using the standard os package
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// LookupEnv reports whether the variable is set, and its value
func (*OSReader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map implements Reader over a fixed set of variables.
type Map map[string]string

// Getenv returns the value of key, or "" when unset.
func (m Map) Getenv(key string) string {
	return m[key]
}

// LookupEnv reports whether key is set, and its value.
func (m Map) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
