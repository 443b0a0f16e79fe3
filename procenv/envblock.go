// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"strings"
	"unicode/utf16"
)

// decodeEnvironmentBlock splits a UTF-16 environment block into KEY=VALUE
// entries. The block ends at the first empty entry.
func decodeEnvironmentBlock(block []uint16) []string {
	var entries []string
	start := 0
	for i, c := range block {
		if c != 0 {
			continue
		}
		if i == start {
			break
		}
		entries = append(entries, string(utf16.Decode(block[start:i])))
		start = i + 1
	}
	return entries
}

// splitEntry splits a KEY=VALUE entry. A leading '=' belongs to the key, as
// in the per-drive "=C:=C:\dir" entries on Windows.
func splitEntry(entry string) (string, string, bool) {
	if entry == "" {
		return "", "", false
	}
	i := strings.IndexByte(entry[1:], '=')
	if i < 0 {
		return "", "", false
	}
	return entry[:i+1], entry[i+2:], true
}

// environFromEntries builds a map from entries, skipping those without '='.
func environFromEntries(entries []string) map[string]string {
	environ := make(map[string]string, len(entries))
	for _, entry := range entries {
		if key, value, ok := splitEntry(entry); ok {
			environ[key] = value
		}
	}
	return environ
}
