//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package storage

type (
	// VolumeProvider defines an interface to be implemented by a provider
	// of managed APFS volumes.
	VolumeProvider interface {
		List(ListRequest) (*ListResponse, error)
		Mount(MountRequest) (*MountResponse, error)
		Unmount(UnmountRequest) (*UnmountResponse, error)
		Delete(DeleteRequest) (*DeleteResponse, error)
	}

	// ListRequest requests the current APFS volume catalog. Unmanaged
	// volumes are only included if All is set.
	ListRequest struct {
		All bool
	}

	// ListResponse contains the APFS volume catalog.
	ListResponse struct {
		Containers ApfsContainers `json:"containers"`
	}

	// MountRequest requests a managed volume be mounted on Target.
	MountRequest struct {
		Target string
	}

	// MountResponse describes the outcome of a successful mount.
	MountResponse struct {
		Target           string `json:"target"`
		DeviceIdentifier string `json:"device_identifier"`
		Created          bool   `json:"created"`
		AlreadyMounted   bool   `json:"already_mounted"`
		// MovedFrom is set if the volume was unmounted from another
		// location before being mounted on Target.
		MovedFrom string `json:"moved_from,omitempty"`
		UID       uint32 `json:"uid"`
		GID       uint32 `json:"gid"`
	}

	// UnmountRequest requests the managed volume for Target be unmounted.
	UnmountRequest struct {
		Target string
		Force  bool
	}

	// UnmountResponse describes the outcome of a successful unmount.
	UnmountResponse struct {
		Target           string `json:"target"`
		DeviceIdentifier string `json:"device_identifier"`
	}

	// DeleteRequest requests the managed volume for Target be deleted.
	DeleteRequest struct {
		Target string
	}

	// DeleteResponse describes the outcome of a successful delete.
	DeleteResponse struct {
		Target           string `json:"target"`
		DeviceIdentifier string `json:"device_identifier"`
	}
)
