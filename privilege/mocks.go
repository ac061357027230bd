//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package privilege

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rayleyva/eden/common"
)

// MockProcess is a ProcessProvider with fixed credentials and environment.
type MockProcess struct {
	UID  int
	GID  int
	EUID int
	Env  []string
}

func (mp *MockProcess) Getuid() int  { return mp.UID }
func (mp *MockProcess) Getgid() int  { return mp.GID }
func (mp *MockProcess) Geteuid() int { return mp.EUID }

func (mp *MockProcess) LookupEnv(key string) (string, bool) {
	val, err := common.FindKeyValue(mp.Env, key)
	return val, err == nil
}

func (mp *MockProcess) Environ() []string {
	return append([]string{}, mp.Env...)
}

// NewSetuidMockProcess returns a MockProcess which looks like a setuid
// root binary started by the given user.
func NewSetuidMockProcess(uid, gid int) *MockProcess {
	return &MockProcess{UID: uid, GID: gid, EUID: 0}
}

type (
	// RunCall records a command run via MockRunner.
	RunCall struct {
		Privileged bool
		Stdin      []byte
		Path       string
		Args       []string
	}

	// MockRunnerConfig alters MockRunner behavior.
	MockRunnerConfig struct {
		Identity Identity
		// Unelevated makes the runner report no root privileges.
		Unelevated bool
		// Handler is invoked for every command; a nil Handler
		// yields empty output and no error.
		Handler func(RunCall) ([]byte, error)
	}

	// MockRunner records commands instead of running them.
	MockRunner struct {
		sync.Mutex
		cfg   MockRunnerConfig
		Calls []RunCall
	}
)

// String returns the command line of the call.
func (rc RunCall) String() string {
	return strings.Join(append([]string{filepath.Base(rc.Path)}, rc.Args...), " ")
}

func NewMockRunner(cfg *MockRunnerConfig) *MockRunner {
	if cfg == nil {
		cfg = &MockRunnerConfig{}
	}
	return &MockRunner{cfg: *cfg}
}

func (mr *MockRunner) Identity() Identity {
	return mr.cfg.Identity
}

func (mr *MockRunner) IsElevated() bool {
	return !mr.cfg.Unelevated
}

func (mr *MockRunner) RunUnprivileged(stdin []byte, path string, args ...string) ([]byte, error) {
	return mr.run(RunCall{Stdin: stdin, Path: path, Args: args})
}

func (mr *MockRunner) RunPrivileged(path string, args ...string) ([]byte, error) {
	return mr.run(RunCall{Privileged: true, Path: path, Args: args})
}

func (mr *MockRunner) run(call RunCall) ([]byte, error) {
	mr.Lock()
	mr.Calls = append(mr.Calls, call)
	mr.Unlock()

	if !filepath.IsAbs(call.Path) {
		return nil, FaultUntrustedCommandPath(call.Path)
	}
	if mr.cfg.Handler == nil {
		return nil, nil
	}
	return mr.cfg.Handler(call)
}

// CallStrings returns the recorded calls as command lines, with
// privileged calls prefixed by "root: ".
func (mr *MockRunner) CallStrings() []string {
	mr.Lock()
	defer mr.Unlock()

	var out []string
	for _, call := range mr.Calls {
		prefix := ""
		if call.Privileged {
			prefix = "root: "
		}
		out = append(out, fmt.Sprintf("%s%s", prefix, call))
	}
	return out
}

// PrivilegedCalls returns the number of privileged commands run.
func (mr *MockRunner) PrivilegedCalls() int {
	mr.Lock()
	defer mr.Unlock()

	var count int
	for _, call := range mr.Calls {
		if call.Privileged {
			count++
		}
	}
	return count
}
