//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package apfs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/rayleyva/eden/common"
	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/privilege"
	"github.com/rayleyva/eden/storage"
)

func newTestProvider(t *testing.T, log logging.Logger, decoder string, container string,
	cfg *MockDiskutilConfig) (*Provider, *MockDiskutil, *privilege.MockRunner) {
	t.Helper()

	md := NewMockDiskutil(cfg)
	runner := privilege.NewMockRunner(&privilege.MockRunnerConfig{Handler: md.Handle})
	d, err := NewDecoder(decoder, runner)
	if err != nil {
		t.Fatal(err)
	}

	return NewProvider(log, runner, d, container), md, runner
}

func TestApfs_Provider_ListContainers(t *testing.T) {
	for name, tc := range map[string]struct {
		decoder  string
		cfg      *MockDiskutilConfig
		expOut   storage.ApfsContainers
		expCalls []string
		expErr   error
	}{
		"native": {
			decoder:  DecoderNative,
			cfg:      &MockDiskutilConfig{Containers: fixtureContainers()},
			expOut:   fixtureContainers(),
			expCalls: []string{"diskutil apfs list -plist"},
		},
		"plutil": {
			decoder: DecoderPlutil,
			cfg:     &MockDiskutilConfig{Containers: fixtureContainers()},
			expOut:  fixtureContainers(),
			expCalls: []string{
				"diskutil apfs list -plist",
				"plutil -convert json -o - -",
			},
		},
		"diskutil fails": {
			decoder:  DecoderNative,
			cfg:      &MockDiskutilConfig{ListErr: errors.New("exit status 1")},
			expCalls: []string{"diskutil apfs list -plist"},
			expErr:   errors.New("listing apfs volumes: exit status 1"),
		},
		"undecodable output": {
			decoder:  DecoderNative,
			cfg:      &MockDiskutilConfig{ListOutput: []byte("<plist")},
			expCalls: []string{"diskutil apfs list -plist"},
			expErr:   errors.New("failed to decode APFS volume listing"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer common.ShowBufferOnFailure(t, buf)

			p, _, runner := newTestProvider(t, log, tc.decoder, "", tc.cfg)

			gotOut, gotErr := p.ListContainers()
			common.CmpErr(t, tc.expErr, gotErr)
			if diff := cmp.Diff(tc.expCalls, runner.CallStrings()); diff != "" {
				t.Fatalf("unexpected calls (-want, +got):\n%s\n", diff)
			}
			if runner.PrivilegedCalls() != 0 {
				t.Fatal("listing must not run privileged commands")
			}
			if tc.expErr != nil {
				return
			}

			if diff := cmp.Diff(tc.expOut, gotOut); diff != "" {
				t.Fatalf("unexpected containers (-want, +got):\n%s\n", diff)
			}
		})
	}
}

func TestApfs_Provider_CreateVolume(t *testing.T) {
	label := storage.EncodeVolumeLabel("/Users/x/new/buck-out")

	for name, tc := range map[string]struct {
		label     storage.VolumeLabel
		container string
		cfg       *MockDiskutilConfig
		expDev    string
		expCalls  []string
		expErr    error
	}{
		"default container": {
			label:  label,
			cfg:    &MockDiskutilConfig{Containers: fixtureContainers()},
			expDev: "disk1s8",
			expCalls: []string{
				"diskutil apfs addVolume disk1 apfs edenfs:/Users/x/new/buck-out -nomount",
				"diskutil apfs list -plist",
			},
		},
		"configured container": {
			label:     label,
			container: "disk3",
			cfg:       &MockDiskutilConfig{Containers: fixtureContainers()},
			expDev:    "disk3s2",
			expCalls: []string{
				"diskutil apfs addVolume disk3 apfs edenfs:/Users/x/new/buck-out -nomount",
				"diskutil apfs list -plist",
			},
		},
		"unknown container": {
			label:     label,
			container: "disk9",
			cfg:       &MockDiskutilConfig{Containers: fixtureContainers()},
			expCalls: []string{
				"diskutil apfs addVolume disk9 apfs edenfs:/Users/x/new/buck-out -nomount",
			},
			expErr: errors.New("Could not find disk: disk9"),
		},
		"created but not relocated": {
			label: label,
			cfg: &MockDiskutilConfig{
				Containers:    fixtureContainers(),
				HideNewVolume: true,
			},
			expCalls: []string{
				"diskutil apfs addVolume disk1 apfs edenfs:/Users/x/new/buck-out -nomount",
				"diskutil apfs list -plist",
			},
			expErr: storage.FaultVolumeNotRelocated(label),
		},
		"unmanaged label": {
			label:  "Macintosh HD",
			cfg:    &MockDiskutilConfig{Containers: fixtureContainers()},
			expErr: errors.New("unmanaged label"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer common.ShowBufferOnFailure(t, buf)

			p, _, runner := newTestProvider(t, log, DecoderNative, tc.container, tc.cfg)

			vol, gotErr := p.CreateVolume(tc.label)
			common.CmpErr(t, tc.expErr, gotErr)
			if diff := cmp.Diff(tc.expCalls, runner.CallStrings()); diff != "" {
				t.Fatalf("unexpected calls (-want, +got):\n%s\n", diff)
			}
			if runner.PrivilegedCalls() != 0 {
				t.Fatal("volume creation must not run privileged commands")
			}
			if tc.expErr != nil {
				return
			}

			common.AssertEqual(t, tc.expDev, vol.DeviceIdentifier, "device identifier")
			common.AssertEqual(t, tc.label, vol.Name, "label")
			common.AssertFalse(t, vol.IsMounted(), "new volume must not be mounted")
		})
	}
}

func TestApfs_Provider_UnmountVolume(t *testing.T) {
	for name, tc := range map[string]struct {
		dev      string
		force    bool
		expCalls []string
		expErr   error
	}{
		"unmount": {
			dev:      "disk1s6",
			expCalls: []string{"diskutil unmount disk1s6"},
		},
		"forced": {
			dev:      "disk3s1",
			force:    true,
			expCalls: []string{"diskutil unmount force disk3s1"},
		},
		"missing device": {
			dev:      "disk9s1",
			expCalls: []string{"diskutil unmount disk9s1"},
			expErr:   errors.New("unmounting disk9s1"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer common.ShowBufferOnFailure(t, buf)

			p, md, runner := newTestProvider(t, log, DecoderNative, "",
				&MockDiskutilConfig{Containers: fixtureContainers()})

			gotErr := p.UnmountVolume(&storage.ApfsVolume{DeviceIdentifier: tc.dev}, tc.force)
			common.CmpErr(t, tc.expErr, gotErr)
			if diff := cmp.Diff(tc.expCalls, runner.CallStrings()); diff != "" {
				t.Fatalf("unexpected calls (-want, +got):\n%s\n", diff)
			}
			if runner.PrivilegedCalls() != 0 {
				t.Fatal("unmount must not run privileged commands")
			}
			if tc.expErr != nil {
				return
			}

			for _, c := range md.Containers() {
				for _, v := range c.Volumes {
					if v.DeviceIdentifier == tc.dev && v.IsMounted() {
						t.Fatalf("%s still mounted", tc.dev)
					}
				}
			}
		})
	}
}

func TestApfs_Provider_DeleteVolume(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer common.ShowBufferOnFailure(t, buf)

	p, md, runner := newTestProvider(t, log, DecoderNative, "",
		&MockDiskutilConfig{Containers: fixtureContainers()})

	if err := p.DeleteVolume(&storage.ApfsVolume{DeviceIdentifier: "disk1s5"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"diskutil apfs deleteVolume disk1s5"}, runner.CallStrings()); diff != "" {
		t.Fatalf("unexpected calls (-want, +got):\n%s\n", diff)
	}
	if md.Containers().FindByLabel("edenfs:/Users/x/repo/buck-out") != nil {
		t.Fatal("volume not deleted")
	}

	err := p.DeleteVolume(&storage.ApfsVolume{DeviceIdentifier: "disk1s5"})
	common.CmpErr(t, errors.New("deleting disk1s5"), err)
	if runner.PrivilegedCalls() != 0 {
		t.Fatal("delete must not run privileged commands")
	}
}
