//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package privilege

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"github.com/rayleyva/eden/common"
	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/provider/system"
)

// ChildPath is the search path given to every child process.
const ChildPath = "/usr/bin:/bin:/usr/sbin:/sbin"

// childEnvAllowlist names the caller variables passed through to children.
var childEnvAllowlist = []string{
	"LANG",
	"LANGUAGE",
	"LC_ALL",
	"LC_COLLATE",
	"LC_CTYPE",
	"LC_MESSAGES",
	"LC_MONETARY",
	"LC_NUMERIC",
	"LC_TIME",
}

type (
	// Context carries the resolved caller identity and the rules for
	// spawning child processes with or without elevated privilege.
	Context struct {
		log      logging.Logger
		proc     ProcessProvider
		identity Identity
		env      []string
	}

	cmdLogger struct {
		logFn  func(string)
		prefix string
	}
)

func (cl *cmdLogger) Write(data []byte) (int, error) {
	if cl.logFn == nil {
		return 0, errors.New("no log function set in cmdLogger")
	}

	var msg string
	if cl.prefix != "" {
		msg = cl.prefix + " "
	}
	msg += strings.TrimRight(string(data), "\n")
	cl.logFn(msg)
	return len(data), nil
}

// NewContext resolves the caller identity and returns a Context for
// running commands on its behalf.
func NewContext(log logging.Logger, proc ProcessProvider) (*Context, error) {
	id, err := ResolveRealIdentity(proc)
	if err != nil {
		return nil, err
	}

	env := common.MergeKeyValues(
		common.FilterEnvironment(proc.Environ(), childEnvAllowlist),
		[]string{"PATH=" + ChildPath},
	)

	log.Debugf("real uid=%d gid=%d, effective uid=%d; acting as %s",
		proc.Getuid(), proc.Getgid(), proc.Geteuid(), id)

	return &Context{
		log:      log,
		proc:     proc,
		identity: id,
		env:      env,
	}, nil
}

// Identity returns the resolved caller identity.
func (c *Context) Identity() Identity {
	return c.identity
}

// IsElevated returns true if the process has an effective uid of root.
func (c *Context) IsElevated() bool {
	return c.proc.Geteuid() == 0
}

func (c *Context) newCmd(path string, args ...string) (*exec.Cmd, error) {
	if !filepath.IsAbs(path) {
		return nil, FaultUntrustedCommandPath(path)
	}

	cmd := exec.Command(path, args...)
	cmd.Env = append([]string{}, c.env...)
	cmd.Dir = "/"
	return cmd, nil
}

// UnprivilegedCmd returns a command which runs as the caller. When the
// helper holds root privileges, both the real and effective ids of the
// child are set to the caller identity and its supplementary groups are
// cleared before exec.
func (c *Context) UnprivilegedCmd(path string, args ...string) (*exec.Cmd, error) {
	cmd, err := c.newCmd(path, args...)
	if err != nil {
		return nil, err
	}

	if c.IsElevated() {
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Credential: &syscall.Credential{
				Uid:    c.identity.UID,
				Gid:    c.identity.GID,
				Groups: []uint32{},
			},
		}
	}

	return cmd, nil
}

// PrivilegedCmd returns a command which inherits the helper's root
// privileges. It panics if the helper is not running with an effective
// uid of root.
func (c *Context) PrivilegedCmd(path string, args ...string) (*exec.Cmd, error) {
	cmd, err := c.newCmd(path, args...)
	if err != nil {
		return nil, err
	}

	if !c.IsElevated() {
		panic(fmt.Sprintf("privileged command %s requested with effective uid %d",
			path, c.proc.Geteuid()))
	}

	return cmd, nil
}

// RunUnprivileged runs a command as the caller, supplying stdin if it
// is non-nil, and returns its standard output.
func (c *Context) RunUnprivileged(stdin []byte, path string, args ...string) ([]byte, error) {
	cmd, err := c.UnprivilegedCmd(path, args...)
	if err != nil {
		return nil, err
	}

	return c.run(cmd, stdin, "unprivileged")
}

// RunPrivileged runs a command with root privileges and returns its
// standard output.
func (c *Context) RunPrivileged(path string, args ...string) ([]byte, error) {
	cmd, err := c.PrivilegedCmd(path, args...)
	if err != nil {
		return nil, err
	}

	return c.run(cmd, nil, "privileged")
}

func (c *Context) run(cmd *exec.Cmd, stdin []byte, kind string) ([]byte, error) {
	cmdStr := strings.Join(cmd.Args, " ")
	c.log.Debugf("running %s: %s", kind, cmdStr)

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, &cmdLogger{
		logFn:  c.log.Debug,
		prefix: filepath.Base(cmd.Path) + ":",
	})

	if err := cmd.Run(); err != nil {
		return nil, &system.RunCmdError{
			Wrapped: err,
			Cmd:     cmdStr,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
		}
	}

	return stdout.Bytes(), nil
}
