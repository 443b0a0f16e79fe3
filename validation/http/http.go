// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package http provides validation functions for HTTP headers.
package http

import (
	"fmt"
	"net/textproto"
	"slices"
	"sort"

	"golang.org/x/net/http/httpguts"
)

const (
	maxHeaderNameLength  = 256
	maxHeaderValueLength = 8192
)

// reservedHeaders are written by the server itself and cannot be configured.
var reservedHeaders = []string{"Content-Length", "Content-Type", "Transfer-Encoding"}

// ValidateHeaderName validates that a string is a valid HTTP header name per RFC 7230.
func ValidateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("header name cannot be empty")
	}

	if len(name) > maxHeaderNameLength {
		return fmt.Errorf("header name exceeds maximum length of %d bytes", maxHeaderNameLength)
	}

	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("invalid HTTP header name: contains invalid characters")
	}

	return nil
}

// ValidateHeaderValue validates that a string is a valid HTTP header value per RFC 7230.
func ValidateHeaderValue(value string) error {
	if value == "" {
		return fmt.Errorf("header value cannot be empty")
	}

	if len(value) > maxHeaderValueLength {
		return fmt.Errorf("header value exceeds maximum length of %d bytes", maxHeaderValueLength)
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid HTTP header value: contains control characters")
	}

	return nil
}

// ValidateHeaders validates a set of configured response headers. Names are
// checked in sorted order so the reported error is stable.
func ValidateHeaders(headers map[string]string) error {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ValidateHeaderName(name); err != nil {
			return fmt.Errorf("response header %q: %w", name, err)
		}
		if slices.Contains(reservedHeaders, textproto.CanonicalMIMEHeaderKey(name)) {
			return fmt.Errorf("response header %q is set by the server", name)
		}
		if err := ValidateHeaderValue(headers[name]); err != nil {
			return fmt.Errorf("response header %q: %w", name, err)
		}
	}
	return nil
}
