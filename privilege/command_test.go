//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package privilege

import (
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rayleyva/eden/common"
	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/provider/system"
)

func newTestContext(t *testing.T, log logging.Logger, proc ProcessProvider) *Context {
	t.Helper()

	ctx, err := NewContext(log, proc)
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func TestPrivilege_NewContext(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer common.ShowBufferOnFailure(t, buf)

	proc := NewSetuidMockProcess(501, 20)
	proc.Env = []string{
		"PATH=/Users/x/bin:/usr/bin",
		"LC_ALL=C",
		"DYLD_INSERT_LIBRARIES=/tmp/evil.dylib",
		"LANG=en_US.UTF-8",
		"HOME=/Users/x",
	}

	ctx := newTestContext(t, log, proc)

	expEnv := []string{
		"LANG=en_US.UTF-8",
		"LC_ALL=C",
		"PATH=" + ChildPath,
	}
	if diff := cmp.Diff(expEnv, ctx.env); diff != "" {
		t.Fatalf("unexpected child env (-want, +got):\n%s\n", diff)
	}
	if diff := cmp.Diff(Identity{UID: 501, GID: 20}, ctx.Identity()); diff != "" {
		t.Fatalf("unexpected identity (-want, +got):\n%s\n", diff)
	}
	if !ctx.IsElevated() {
		t.Fatal("expected elevated context")
	}

	if _, err := NewContext(log, &MockProcess{Env: []string{"SUDO_UID=x"}}); err == nil {
		t.Fatal("expected error for malformed SUDO_UID")
	}
}

func TestPrivilege_UnprivilegedCmd(t *testing.T) {
	for name, tc := range map[string]struct {
		proc    *MockProcess
		path    string
		expCred *syscall.Credential
		expErr  error
	}{
		"relative path": {
			proc:   NewSetuidMockProcess(501, 20),
			path:   "diskutil",
			expErr: FaultUntrustedCommandPath("diskutil"),
		},
		"dot-relative path": {
			proc:   NewSetuidMockProcess(501, 20),
			path:   "./diskutil",
			expErr: FaultUntrustedCommandPath("./diskutil"),
		},
		"setuid drops to caller": {
			proc:    NewSetuidMockProcess(501, 20),
			path:    "/usr/sbin/diskutil",
			expCred: &syscall.Credential{Uid: 501, Gid: 20, Groups: []uint32{}},
		},
		"sudo drops to invoking user": {
			proc:    &MockProcess{Env: []string{"SUDO_UID=502", "SUDO_GID=21"}},
			path:    "/usr/sbin/diskutil",
			expCred: &syscall.Credential{Uid: 502, Gid: 21, Groups: []uint32{}},
		},
		"not elevated runs as-is": {
			proc: &MockProcess{UID: 501, GID: 20, EUID: 501},
			path: "/usr/sbin/diskutil",
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer common.ShowBufferOnFailure(t, buf)

			ctx := newTestContext(t, log, tc.proc)
			cmd, err := ctx.UnprivilegedCmd(tc.path, "apfs", "list")
			common.CmpErr(t, tc.expErr, err)
			if tc.expErr != nil {
				return
			}

			if diff := cmp.Diff([]string{tc.path, "apfs", "list"}, cmd.Args); diff != "" {
				t.Fatalf("unexpected args (-want, +got):\n%s\n", diff)
			}

			var gotCred *syscall.Credential
			if cmd.SysProcAttr != nil {
				gotCred = cmd.SysProcAttr.Credential
			}
			if diff := cmp.Diff(tc.expCred, gotCred); diff != "" {
				t.Fatalf("unexpected credential (-want, +got):\n%s\n", diff)
			}
		})
	}
}

func TestPrivilege_PrivilegedCmd(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer common.ShowBufferOnFailure(t, buf)

	elevated := newTestContext(t, log, NewSetuidMockProcess(501, 20))
	cmd, err := elevated.PrivilegedCmd("/sbin/mount_apfs", "-onobrowse")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.SysProcAttr != nil {
		t.Fatal("privileged command must not drop credentials")
	}

	_, err = elevated.PrivilegedCmd("mount_apfs")
	common.CmpErr(t, FaultUntrustedCommandPath("mount_apfs"), err)

	unprivileged := newTestContext(t, log, &MockProcess{UID: 501, GID: 20, EUID: 501})
	common.ExpectPanic(t, "effective uid 501", func() {
		_, _ = unprivileged.PrivilegedCmd("/sbin/mount_apfs")
	})
	common.ExpectPanic(t, "effective uid 501", func() {
		_, _ = unprivileged.RunPrivileged("/bin/sh", "-c", "touch /should-not-exist")
	})
}

func TestPrivilege_RunUnprivileged(t *testing.T) {
	for name, tc := range map[string]struct {
		stdin     []byte
		script    string
		expStdout string
		expStderr string
		expErr    bool
	}{
		"stdin passed through": {
			stdin:     []byte("plist data"),
			script:    "cat",
			expStdout: "plist data",
		},
		"fixed path": {
			script:    `echo "$PATH"`,
			expStdout: ChildPath + "\n",
		},
		"environment scrubbed": {
			script:    `echo "${DYLD_INSERT_LIBRARIES:-unset} ${HOME:-unset}"`,
			expStdout: "unset unset\n",
		},
		"failure carries output": {
			script:    "echo partial; echo 'Volume not found' >&2; exit 2",
			expStdout: "partial\n",
			expStderr: "Volume not found\n",
			expErr:    true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer common.ShowBufferOnFailure(t, buf)

			proc := &MockProcess{
				UID: os.Getuid(), GID: os.Getgid(), EUID: 4242,
				Env: []string{"DYLD_INSERT_LIBRARIES=/tmp/evil.dylib", "HOME=/root"},
			}
			ctx := newTestContext(t, log, proc)

			out, err := ctx.RunUnprivileged(tc.stdin, "/bin/sh", "-c", tc.script)
			if tc.expErr {
				rce, ok := err.(*system.RunCmdError)
				if !ok {
					t.Fatalf("expected *system.RunCmdError, got %T (%v)", err, err)
				}
				if rce.ExitCode() != 2 {
					t.Fatalf("unexpected exit code %d", rce.ExitCode())
				}
				if rce.Stdout != tc.expStdout || rce.Stderr != tc.expStderr {
					t.Fatalf("unexpected output: stdout %q, stderr %q", rce.Stdout, rce.Stderr)
				}
				if !strings.Contains(buf.String(), "Volume not found") {
					t.Fatal("expected stderr to be logged")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tc.expStdout {
				t.Fatalf("expected %q, got %q", tc.expStdout, string(out))
			}
		})
	}
}

func TestPrivilege_RunAsRoot(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	log, buf := logging.NewTestLogger(t.Name())
	defer common.ShowBufferOnFailure(t, buf)

	ctx := newTestContext(t, log, &MockProcess{
		Env: []string{"SUDO_UID=65534", "SUDO_GID=65534"},
	})

	out, err := ctx.RunPrivileged("/bin/sh", "-c", "id -u")
	if err != nil {
		t.Fatal(err)
	}
	common.AssertEqual(t, "0\n", string(out), "privileged uid")

	out, err = ctx.RunUnprivileged(nil, "/bin/sh", "-c", "id -u; id -G")
	if err != nil {
		t.Fatal(err)
	}
	common.AssertEqual(t, "65534\n65534\n", string(out), "unprivileged ids")
}
