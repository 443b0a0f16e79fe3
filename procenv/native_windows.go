// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package procenv

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const nativeFoldCase = true

// maxEnvironmentBlock bounds the bytes read from a foreign process.
const maxEnvironmentBlock = 64 << 20

// nativeEnviron reads the environment block of pid from its PEB.
func nativeEnviron(pid int) ([]string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("opening process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h) //nolint:errcheck

	var info windows.PROCESS_BASIC_INFORMATION
	err = windows.NtQueryInformationProcess(h, windows.ProcessBasicInformation,
		unsafe.Pointer(&info), uint32(unsafe.Sizeof(info)), nil)
	if err != nil {
		return nil, fmt.Errorf("querying process %d: %w", pid, err)
	}

	var peb windows.PEB
	if err := readProcessMemory(h, uintptr(unsafe.Pointer(info.PebBaseAddress)),
		unsafe.Pointer(&peb), unsafe.Sizeof(peb)); err != nil {
		return nil, fmt.Errorf("reading PEB of process %d: %w", pid, err)
	}

	var params windows.RTL_USER_PROCESS_PARAMETERS
	if err := readProcessMemory(h, uintptr(unsafe.Pointer(peb.ProcessParameters)),
		unsafe.Pointer(&params), unsafe.Sizeof(params)); err != nil {
		return nil, fmt.Errorf("reading parameters of process %d: %w", pid, err)
	}

	size := params.EnvironmentSize
	if size < 2 || size > maxEnvironmentBlock {
		return nil, fmt.Errorf("process %d reports environment size %d", pid, size)
	}

	block := make([]uint16, size/2)
	if err := readProcessMemory(h, uintptr(params.Environment),
		unsafe.Pointer(&block[0]), uintptr(len(block))*2); err != nil {
		return nil, fmt.Errorf("reading environment of process %d: %w", pid, err)
	}

	return decodeEnvironmentBlock(block), nil
}

func readProcessMemory(h windows.Handle, addr uintptr, dst unsafe.Pointer, size uintptr) error {
	var n uintptr
	return windows.ReadProcessMemory(h, addr, (*byte)(dst), size, &n)
}
