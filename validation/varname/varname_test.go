// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package varname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"upper case", "HOME", false},
		{"mixed case", "Path", false},
		{"underscores and digits", "AGENT_WORKER_2", false},
		{"dotted", "java.home", false},
		{"drive variable", "=C:", false},
		{"inner space", "PROGRAM FILES", false},
		{"max length", strings.Repeat("A", MaxLength), false},

		{"empty", "", true},
		{"equals", "FOO=bar", true},
		{"trailing equals", "FOO=", true},
		{"bare equals", "=", true},
		{"null byte", "FOO\x00", true},
		{"newline", "FOO\nBAR", true},
		{"tab", "FOO\t", true},
		{"leading space", " FOO", true},
		{"trailing space", "FOO ", true},
		{"only spaces", "   ", true},
		{"too long", strings.Repeat("A", MaxLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateName(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
