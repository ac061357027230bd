//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package apfs

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"howett.net/plist"

	"github.com/rayleyva/eden/privilege"
	"github.com/rayleyva/eden/provider/system"
	"github.com/rayleyva/eden/storage"
)

type (
	// MockDiskutilConfig alters MockDiskutil behavior.
	MockDiskutilConfig struct {
		Containers    storage.ApfsContainers
		ListOutput    []byte
		ListErr       error
		AddVolumeErr  error
		HideNewVolume bool
		UnmountErr    error
		DeleteErr     error
		MountErr      error
		PlutilErr     error
	}

	// MockDiskutil emulates diskutil, plutil and mount_apfs against an
	// in-memory catalog. Its Handle method is intended for use as a
	// privilege.MockRunnerConfig Handler.
	MockDiskutil struct {
		sync.Mutex
		cfg        MockDiskutilConfig
		containers storage.ApfsContainers
		nextSlice  map[string]int
	}
)

func copyContainers(in storage.ApfsContainers) storage.ApfsContainers {
	out := make(storage.ApfsContainers, 0, len(in))
	for _, c := range in {
		cc := *c
		cc.Volumes = make(storage.ApfsVolumes, 0, len(c.Volumes))
		for _, v := range c.Volumes {
			vc := *v
			cc.Volumes = append(cc.Volumes, &vc)
		}
		out = append(out, &cc)
	}
	return out
}

func toWire(containers storage.ApfsContainers) *apfsList {
	al := &apfsList{Containers: []apfsContainer{}}
	for _, c := range containers {
		wc := apfsContainer{
			CapacityCeiling:    c.CapacityCeiling,
			CapacityFree:       c.CapacityFree,
			ContainerReference: c.ContainerReference,
			Volumes:            []apfsVolume{},
		}
		if c.UUID != uuid.Nil {
			wc.UUID = strings.ToUpper(c.UUID.String())
		}
		for _, v := range c.Volumes {
			wv := apfsVolume{
				CapacityInUse:    v.CapacityInUse,
				DeviceIdentifier: v.DeviceIdentifier,
				MountPoint:       v.MountPoint,
				Name:             v.Name.String(),
			}
			if v.UUID != uuid.Nil {
				wv.UUID = strings.ToUpper(v.UUID.String())
			}
			wc.Volumes = append(wc.Volumes, wv)
		}
		al.Containers = append(al.Containers, wc)
	}
	return al
}

func mockCmdError(call privilege.RunCall, stderr string) error {
	return &system.RunCmdError{
		Wrapped: errors.New("exit status 1"),
		Cmd:     call.String(),
		Stderr:  stderr,
	}
}

// NewMockDiskutil returns a MockDiskutil holding a copy of the
// configured containers.
func NewMockDiskutil(cfg *MockDiskutilConfig) *MockDiskutil {
	if cfg == nil {
		cfg = &MockDiskutilConfig{}
	}

	md := &MockDiskutil{
		cfg:        *cfg,
		containers: copyContainers(cfg.Containers),
		nextSlice:  make(map[string]int),
	}
	for _, c := range md.containers {
		md.nextSlice[c.ContainerReference] = len(c.Volumes) + 1
	}
	return md
}

// Containers returns a copy of the current catalog.
func (md *MockDiskutil) Containers() storage.ApfsContainers {
	md.Lock()
	defer md.Unlock()

	return copyContainers(md.containers)
}

func (md *MockDiskutil) findVolume(dev string) (*storage.ApfsContainer, int) {
	for _, c := range md.containers {
		for i, v := range c.Volumes {
			if v.DeviceIdentifier == dev {
				return c, i
			}
		}
	}
	return nil, -1
}

// Handle emulates the command described by call.
func (md *MockDiskutil) Handle(call privilege.RunCall) ([]byte, error) {
	md.Lock()
	defer md.Unlock()

	switch filepath.Base(call.Path) {
	case "diskutil":
		return md.diskutil(call)
	case "plutil":
		return md.plutil(call)
	case "mount_apfs":
		return md.mountApfs(call)
	default:
		return nil, errors.Errorf("unexpected command %s", call)
	}
}

func (md *MockDiskutil) diskutil(call privilege.RunCall) ([]byte, error) {
	args := call.Args
	switch {
	case len(args) == 3 && args[0] == "apfs" && args[1] == "list":
		if md.cfg.ListErr != nil {
			return nil, md.cfg.ListErr
		}
		if md.cfg.ListOutput != nil {
			return md.cfg.ListOutput, nil
		}
		return encodePlist(toWire(md.containers))
	case len(args) == 6 && args[0] == "apfs" && args[1] == "addVolume":
		if md.cfg.AddVolumeErr != nil {
			return nil, md.cfg.AddVolumeErr
		}
		if args[5] != "-nomount" {
			return nil, errors.Errorf("addVolume without -nomount: %s", call)
		}
		for _, c := range md.containers {
			if c.ContainerReference != args[2] {
				continue
			}
			dev := fmt.Sprintf("%ss%d", c.ContainerReference, md.nextSlice[c.ContainerReference])
			md.nextSlice[c.ContainerReference]++
			if !md.cfg.HideNewVolume {
				c.Volumes = append(c.Volumes, &storage.ApfsVolume{
					DeviceIdentifier: dev,
					Name:             storage.VolumeLabel(args[4]),
				})
			}
			return []byte(fmt.Sprintf("Created new APFS Volume %s\n", dev)), nil
		}
		return nil, mockCmdError(call, "Could not find disk: "+args[2])
	case len(args) >= 2 && args[0] == "unmount":
		if md.cfg.UnmountErr != nil {
			return nil, md.cfg.UnmountErr
		}
		c, i := md.findVolume(args[len(args)-1])
		if c == nil {
			return nil, mockCmdError(call, "Could not find disk: "+args[len(args)-1])
		}
		c.Volumes[i].MountPoint = ""
		return []byte("Volume unmounted\n"), nil
	case len(args) == 3 && args[0] == "apfs" && args[1] == "deleteVolume":
		if md.cfg.DeleteErr != nil {
			return nil, md.cfg.DeleteErr
		}
		c, i := md.findVolume(args[2])
		if c == nil {
			return nil, mockCmdError(call, "Could not find disk: "+args[2])
		}
		c.Volumes = append(c.Volumes[:i], c.Volumes[i+1:]...)
		return []byte("Removed APFS Volume\n"), nil
	default:
		return nil, errors.Errorf("unexpected diskutil invocation: %s", call)
	}
}

func (md *MockDiskutil) plutil(call privilege.RunCall) ([]byte, error) {
	if md.cfg.PlutilErr != nil {
		return nil, md.cfg.PlutilErr
	}

	var al apfsList
	if _, err := plist.Unmarshal(call.Stdin, &al); err != nil {
		return nil, mockCmdError(call, "<stdin>: Property List error: "+err.Error())
	}
	return json.Marshal(&al)
}

func (md *MockDiskutil) mountApfs(call privilege.RunCall) ([]byte, error) {
	if !call.Privileged {
		return nil, mockCmdError(call, "mount_apfs: Operation not permitted")
	}
	if md.cfg.MountErr != nil {
		return nil, md.cfg.MountErr
	}
	if len(call.Args) < 2 {
		return nil, errors.Errorf("unexpected mount_apfs invocation: %s", call)
	}

	dev := strings.TrimPrefix(call.Args[len(call.Args)-2], "/dev/")
	c, i := md.findVolume(dev)
	if c == nil {
		return nil, mockCmdError(call, "mount_apfs: volume could not be found")
	}
	c.Volumes[i].MountPoint = call.Args[len(call.Args)-1]
	return nil, nil
}
