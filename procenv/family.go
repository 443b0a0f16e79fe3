// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"fmt"
	"runtime"
	"slices"
)

// Family identifies an operating system family. Values match runtime.GOOS.
type Family string

// Recognized OS families.
const (
	FamilyWindows Family = "windows"
	FamilyLinux   Family = "linux"
	FamilyDarwin  Family = "darwin"
	FamilyFreeBSD Family = "freebsd"
)

// Families lists every family with a default strategy.
func Families() []Family {
	return []Family{FamilyWindows, FamilyLinux, FamilyDarwin, FamilyFreeBSD}
}

// CurrentFamily returns the family of the running host.
func CurrentFamily() Family {
	return Family(runtime.GOOS)
}

// ParseFamily converts s to a recognized Family.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if !slices.Contains(Families(), f) {
		return "", &UnsupportedPlatformError{Family: f}
	}
	return f, nil
}

// String implements fmt.Stringer.
func (f Family) String() string {
	return string(f)
}

// Strategy names accepted by WithNamedStrategy and configuration files.
const (
	StrategyProcstat = "procstat"
	StrategyPS       = "ps"
	StrategyNative   = "native"
	StrategyProcfs   = "procfs"
)

// StrategyNames lists every strategy name that can be selected by name.
func StrategyNames() []string {
	return []string{StrategyProcstat, StrategyPS, StrategyNative, StrategyProcfs}
}

func validateStrategyName(name string) error {
	if !slices.Contains(StrategyNames(), name) {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return nil
}
