// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads the procenv YAML configuration.

The file lives at $XDG_CONFIG_HOME/procenv/config.yaml unless a path is given
explicitly or through PROCENV_CONFIG. A missing default file is not an error;
every field is optional.

	working_directory: /var/lib/agent
	timeout: 30s
	commands:
	  procstat: /usr/bin/procstat
	  ps: /bin/ps
	strategies:
	  linux: procfs
	procfs_mount: /proc
	log:
	  level: debug
	  format: text
	server:
	  address: 127.0.0.1:8765
	  response_headers:
	    Cache-Control: no-store

PROCENV_WORKING_DIRECTORY, PROCENV_LOG_LEVEL and PROCENV_LOG_FORMAT override
the corresponding fields after the file is read.
*/
package config
