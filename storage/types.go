//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package storage

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// ApfsVolume describes a single APFS volume.
	ApfsVolume struct {
		DeviceIdentifier string      `json:"device_identifier"`
		Name             VolumeLabel `json:"name,omitempty"`
		MountPoint       string      `json:"mount_point,omitempty"`
		UUID             uuid.UUID   `json:"uuid"`
		CapacityInUse    uint64      `json:"capacity_in_use"`
	}

	// ApfsVolumes is a list of volumes within a container.
	ApfsVolumes []*ApfsVolume

	// ApfsContainer describes an APFS container and the volumes it holds.
	ApfsContainer struct {
		ContainerReference string      `json:"container_reference"`
		UUID               uuid.UUID   `json:"uuid"`
		CapacityCeiling    uint64      `json:"capacity_ceiling"`
		CapacityFree       uint64      `json:"capacity_free"`
		Volumes            ApfsVolumes `json:"volumes"`
	}

	// ApfsContainers is the set of containers known to the system, in
	// the order reported by diskutil.
	ApfsContainers []*ApfsContainer
)

// DevicePath returns the path of the volume's device node.
func (v *ApfsVolume) DevicePath() string {
	return "/dev/" + v.DeviceIdentifier
}

// IsManaged returns true if the volume carries a managed label. A
// volume without a label is never managed.
func (v *ApfsVolume) IsManaged() bool {
	return v.Name.IsManaged()
}

// IsMounted returns true if the volume is currently mounted anywhere.
func (v *ApfsVolume) IsMounted() bool {
	return v.MountPoint != ""
}

func (v *ApfsVolume) String() string {
	name := string(v.Name)
	if name == "" {
		name = "<unnamed>"
	}
	mnt := v.MountPoint
	if mnt == "" {
		mnt = "<not mounted>"
	}
	return fmt.Sprintf("%s %s %s", v.DeviceIdentifier, name, mnt)
}

// Managed returns the volumes with managed labels.
func (vs ApfsVolumes) Managed() ApfsVolumes {
	out := ApfsVolumes{}
	for _, v := range vs {
		if v.IsManaged() {
			out = append(out, v)
		}
	}
	return out
}

// FindByLabel returns the first volume with the given label, scanning
// containers in order and then volumes within each container in order.
// Unmanaged labels never match.
func (acs ApfsContainers) FindByLabel(label VolumeLabel) *ApfsVolume {
	if !label.IsManaged() {
		return nil
	}

	for _, c := range acs {
		for _, v := range c.Volumes {
			if v.Name == label {
				return v
			}
		}
	}

	return nil
}

// Managed returns a copy of the containers holding only the volumes
// with managed labels. Containers are retained even if empty.
func (acs ApfsContainers) Managed() ApfsContainers {
	out := make(ApfsContainers, 0, len(acs))
	for _, c := range acs {
		cc := *c
		cc.Volumes = c.Volumes.Managed()
		out = append(out, &cc)
	}
	return out
}

// VolumeCount returns the total number of volumes in all containers.
func (acs ApfsContainers) VolumeCount() (count int) {
	for _, c := range acs {
		count += len(c.Volumes)
	}
	return
}
