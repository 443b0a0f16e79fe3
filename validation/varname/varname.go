// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package varname provides validation functions for environment variable names.
package varname

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxLength is the longest accepted name, the Windows limit for a variable.
const MaxLength = 32767

var controlCharRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// ValidateName validates that name can be looked up unambiguously.
func ValidateName(name string) error {
	if name == "" || name == "=" {
		return fmt.Errorf("variable name cannot be empty")
	}

	if len(name) > MaxLength {
		return fmt.Errorf("variable name exceeds maximum length of %d bytes", MaxLength)
	}

	if controlCharRegex.MatchString(name) {
		return fmt.Errorf("variable name cannot contain control characters: %q", name)
	}

	if strings.Contains(name[1:], "=") {
		return fmt.Errorf("variable name cannot contain '=': %q", name)
	}

	if strings.TrimSpace(name) != name {
		return fmt.Errorf("variable name cannot have leading or trailing whitespace: %q", name)
	}

	return nil
}
