//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package privilege

import (
	"os"

	"golang.org/x/sys/unix"
)

// ProcessProvider defines an interface to be implemented by providers
// of process credentials and environment.
type ProcessProvider interface {
	Getuid() int
	Getgid() int
	Geteuid() int
	LookupEnv(key string) (string, bool)
	Environ() []string
}

// Process is a ProcessProvider for the running process.
type Process struct{}

// DefaultProcess returns a ProcessProvider for the running process.
func DefaultProcess() *Process {
	return &Process{}
}

// Getuid returns the real user id of the process.
func (p *Process) Getuid() int {
	return unix.Getuid()
}

// Getgid returns the real group id of the process.
func (p *Process) Getgid() int {
	return unix.Getgid()
}

// Geteuid returns the effective user id of the process.
func (p *Process) Geteuid() int {
	return unix.Geteuid()
}

// LookupEnv retrieves the value of the environment variable named by key.
func (p *Process) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Environ returns a copy of the process environment.
func (p *Process) Environ() []string {
	return os.Environ()
}
