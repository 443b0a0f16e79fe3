// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package procenv

import (
	"fmt"

	"github.com/prometheus/procfs"
)

func readProcfsEnviron(mount string, pid int) ([]string, error) {
	fs, err := procfs.NewFS(mount)
	if err != nil {
		return nil, fmt.Errorf("opening procfs at %s: %w", mount, err)
	}
	proc, err := fs.Proc(pid)
	if err != nil {
		return nil, fmt.Errorf("finding process %d: %w", pid, err)
	}
	entries, err := proc.Environ()
	if err != nil {
		return nil, fmt.Errorf("reading environ of process %d: %w", pid, err)
	}
	return entries, nil
}
