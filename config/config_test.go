//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/rayleyva/eden/common"
	"github.com/rayleyva/eden/fault"
	"github.com/rayleyva/eden/fault/code"
	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/provider/system"
)

func TestConfig_Parse(t *testing.T) {
	for name, tc := range map[string]struct {
		input      string
		expCfg     *Config
		expErrCode code.Code
	}{
		"empty file": {
			expCfg: DefaultConfig(),
		},
		"all fields": {
			input: `
plist_decoder: plutil
container: disk3
log_file: /var/log/eden_apfs_mount_helper.log
log_level: debug
`,
			expCfg: &Config{
				PlistDecoder: "plutil",
				Container:    "disk3",
				LogFile:      "/var/log/eden_apfs_mount_helper.log",
				LogLevel:     logging.LogLevelDebug,
			},
		},
		"partial override": {
			input: "container: disk2\n",
			expCfg: &Config{
				PlistDecoder: "native",
				Container:    "disk2",
				LogLevel:     logging.LogLevelError,
			},
		},
		"unknown key": {
			input:      "diskutil_path: /tmp/evil\n",
			expErrCode: code.ConfigValidationFailed,
		},
		"unknown decoder": {
			input:      "plist_decoder: python\n",
			expErrCode: code.ConfigValidationFailed,
		},
		"bad container": {
			input:      "container: /dev/disk1\n",
			expErrCode: code.ConfigValidationFailed,
		},
		"empty container": {
			input:      "container: \"\"\n",
			expErrCode: code.ConfigValidationFailed,
		},
		"relative log file": {
			input:      "log_file: helper.log\n",
			expErrCode: code.ConfigValidationFailed,
		},
		"bad log level": {
			input:      "log_level: loud\n",
			expErrCode: code.ConfigValidationFailed,
		},
		"malformed yaml": {
			input:      "container: [disk1\n",
			expErrCode: code.ConfigValidationFailed,
		},
	} {
		t.Run(name, func(t *testing.T) {
			gotCfg, gotErr := parse("test.yml", []byte(tc.input))
			if tc.expErrCode != code.Unknown {
				f, ok := errors.Cause(gotErr).(*fault.Fault)
				if !ok {
					t.Fatalf("expected fault, got %v", gotErr)
				}
				common.AssertEqual(t, tc.expErrCode, f.Code, "fault code")
				return
			}
			if gotErr != nil {
				t.Fatal(gotErr)
			}

			if diff := cmp.Diff(tc.expCfg, gotCfg); diff != "" {
				t.Fatalf("unexpected config (-want, +got):\n%s\n", diff)
			}
		})
	}
}

func TestConfig_Load(t *testing.T) {
	testDir := t.TempDir()
	cfgPath := filepath.Join(testDir, "helper.yml")
	if err := os.WriteFile(cfgPath, []byte("container: disk4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(testDir, "missing.yml")

	for name, tc := range map[string]struct {
		path       string
		sysCfg     *system.MockSysConfig
		expCfg     *Config
		expErr     error
		expErrCode code.Code
	}{
		"missing file": {
			path:   missing,
			sysCfg: &system.MockSysConfig{},
			expCfg: DefaultConfig(),
		},
		"stat error": {
			path:   cfgPath,
			sysCfg: &system.MockSysConfig{GetOwnershipErr: errors.New("permission denied")},
			expErr: errors.New("permission denied"),
		},
		"not owned by root": {
			path: cfgPath,
			sysCfg: &system.MockSysConfig{
				Ownership: map[string]*system.FileOwnership{
					cfgPath: {UID: 501, Mode: 0o644},
				},
			},
			expErrCode: code.ConfigBadPermissions,
		},
		"group writable": {
			path: cfgPath,
			sysCfg: &system.MockSysConfig{
				Ownership: map[string]*system.FileOwnership{
					cfgPath: {UID: 0, Mode: 0o664},
				},
			},
			expErrCode: code.ConfigBadPermissions,
		},
		"world writable": {
			path: cfgPath,
			sysCfg: &system.MockSysConfig{
				Ownership: map[string]*system.FileOwnership{
					cfgPath: {UID: 0, Mode: 0o646},
				},
			},
			expErrCode: code.ConfigBadPermissions,
		},
		"root owned": {
			path: cfgPath,
			sysCfg: &system.MockSysConfig{
				Ownership: map[string]*system.FileOwnership{
					cfgPath: {UID: 0, Mode: 0o644},
				},
			},
			expCfg: &Config{
				PlistDecoder: "native",
				Container:    "disk4",
				LogLevel:     logging.LogLevelError,
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer common.ShowBufferOnFailure(t, buf)

			gotCfg, gotErr := Load(tc.path, system.NewMockSysProvider(log, tc.sysCfg))
			if tc.expErrCode != code.Unknown {
				f, ok := errors.Cause(gotErr).(*fault.Fault)
				if !ok {
					t.Fatalf("expected fault, got %v", gotErr)
				}
				common.AssertEqual(t, tc.expErrCode, f.Code, "fault code")
				return
			}
			common.CmpErr(t, tc.expErr, gotErr)
			if tc.expErr != nil {
				return
			}

			if diff := cmp.Diff(tc.expCfg, gotCfg); diff != "" {
				t.Fatalf("unexpected config (-want, +got):\n%s\n", diff)
			}
		})
	}
}

func TestConfig_DefaultPath(t *testing.T) {
	if !filepath.IsAbs(DefaultPath()) {
		t.Fatalf("config path %q is not absolute", DefaultPath())
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config is invalid: %s", err)
	}
}
