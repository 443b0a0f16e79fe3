// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package env abstracts access to the environment of the current process.

procenv reads the environment of other processes; this package covers the
opposite direction, the PROCENV_* overrides read by the config package.
Production code takes an env.Reader, tests substitute the generated mock:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().LookupEnv("PROCENV_LOG_LEVEL").Return("debug", true)

A Reader backed by a fixed map is available as Map.
*/
package env
