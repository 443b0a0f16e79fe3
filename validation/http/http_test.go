// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeaderName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"simple", "Cache-Control", false},
		{"custom", "X-Procenv-Node", false},
		{"with dots", "X.Custom.Header", false},
		{"crlf injection", "X-Node\r\nX-Injected: malicious", true},
		{"newline injection", "X-Node\nInjected", true},
		{"space", "X Node", true},
		{"colon", "X-Node:", true},
		{"null byte", "X-Node\x00", true},
		{"too long", strings.Repeat("A", 300), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateHeaderName(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHeaderValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"simple", "no-store", false},
		{"with spaces", "max-age=0, private", false},
		{"tab allowed", "a\tb", false},
		{"crlf injection", "no-store\r\nX-Injected: malicious", true},
		{"carriage return", "no-store\r", true},
		{"null byte", "no\x00store", true},
		{"delete char", "no\x7Fstore", true},
		{"too long", strings.Repeat("A", 10000), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateHeaderValue(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHeaders(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateHeaders(nil))
	require.NoError(t, ValidateHeaders(map[string]string{
		"Cache-Control":  "no-store",
		"X-Procenv-Node": "builder-1",
	}))

	err := ValidateHeaders(map[string]string{"content-type": "text/plain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set by the server")

	err = ValidateHeaders(map[string]string{"X-Good": "ok", "X-Bad": "a\r\nb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"X-Bad"`)

	err = ValidateHeaders(map[string]string{"Bad Name": "v"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP header name")
}
