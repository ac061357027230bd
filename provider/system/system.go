//
// (C) Copyright 2019-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package system

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type (
	// OwnershipProvider is the interface that wraps the GetOwnership method,
	// which can be provided by a system-specific implementation or a mock.
	OwnershipProvider interface {
		GetOwnership(path string) (*FileOwnership, error)
	}
	// ChownProvider is the interface that wraps the Chown method, which
	// can be provided by a system-specific implementation or a mock.
	ChownProvider interface {
		Chown(path string, uid, gid uint32) error
	}
	// MountSourceProvider is the interface that wraps the GetMountSource
	// method, which reports what (if anything) is mounted at a directory.
	MountSourceProvider interface {
		GetMountSource(target string) (string, bool, error)
	}

	// FileOwnership describes the owner and type of a filesystem object.
	FileOwnership struct {
		UID   uint32
		GID   uint32
		Mode  os.FileMode
		IsDir bool
	}

	// RunCmdError documents the output of a command that has been run.
	RunCmdError struct {
		Wrapped error  // Error from the command run
		Cmd     string // Command line that was run
		Stdout  string // Standard output from the command
		Stderr  string // Standard error from the command
	}
)

func (rce *RunCmdError) Error() string {
	var status string
	if ee, ok := rce.Wrapped.(*exec.ExitError); ok {
		status = ee.ProcessState.String()
	} else {
		status = rce.Wrapped.Error()
	}

	prefix := status
	if rce.Cmd != "" {
		prefix = fmt.Sprintf("%s: %s", rce.Cmd, status)
	}

	return fmt.Sprintf("%s: stdout: %s; stderr: %s", prefix,
		strings.TrimSpace(rce.Stdout), strings.TrimSpace(rce.Stderr))
}

// Unwrap returns the underlying error.
func (rce *RunCmdError) Unwrap() error {
	return rce.Wrapped
}

// ExitCode returns the exit code of the command, or -1 if the command
// did not run to completion.
func (rce *RunCmdError) ExitCode() int {
	if ee, ok := rce.Wrapped.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}
