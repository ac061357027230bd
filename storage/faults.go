//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package storage

import (
	"fmt"

	"github.com/rayleyva/eden/fault"
	"github.com/rayleyva/eden/fault/code"
)

// FaultTargetNotOwned creates a Fault for a mount target that is not
// owned by the caller.
func FaultTargetNotOwned(target string, ownerUID, callerUID uint32) *fault.Fault {
	return storageFault(
		code.StorageTargetNotOwned,
		fmt.Sprintf("refusing to set up a volume at %s: owned by uid %d, not uid %d",
			target, ownerUID, callerUID),
		"volumes may only be mounted on directories you own",
	)
}

// FaultTargetNotDirectory creates a Fault for a mount target that is
// not a directory.
func FaultTargetNotDirectory(target string) *fault.Fault {
	return storageFault(
		code.StorageTargetNotDirectory,
		fmt.Sprintf("mount target %s is not a directory", target),
		"create an empty directory to mount the volume on",
	)
}

// FaultTargetAlreadyMounted creates a Fault for a mount target that
// already has a different filesystem mounted on it.
func FaultTargetAlreadyMounted(target, source string) *fault.Fault {
	return storageFault(
		code.StorageTargetAlreadyMounted,
		fmt.Sprintf("%s is already mounted at %s", source, target),
		fmt.Sprintf("unmount %s first", target),
	)
}

// FaultVolumeNotFound creates a Fault for a mount target that has no
// managed volume.
func FaultVolumeNotFound(target string) *fault.Fault {
	return storageFault(
		code.StorageVolumeNotFound,
		fmt.Sprintf("no volume is associated with %s", target),
		"run the list command to see the managed volumes",
	)
}

// FaultVolumeNotRelocated creates a Fault for a newly created volume
// that does not appear in the subsequent listing.
func FaultVolumeNotRelocated(label VolumeLabel) *fault.Fault {
	return storageFault(
		code.StorageVolumeNotRelocated,
		fmt.Sprintf("volume %q was created but could not be found afterwards", label),
		"",
	)
}

// FaultListDecodeFailed creates a Fault for volume listing output that
// could not be decoded.
func FaultListDecodeFailed(reason string) *fault.Fault {
	return storageFault(
		code.StorageListDecodeFailed,
		"failed to decode APFS volume listing",
		"",
	).WithReason(reason)
}

// FaultTargetChownFailed creates a Fault for a mounted target whose
// ownership could not be restored. The volume remains mounted.
func FaultTargetChownFailed(target string, uid, gid uint32) *fault.Fault {
	return storageFault(
		code.StorageTargetChownFailed,
		fmt.Sprintf("volume mounted at %s but failed to chown it to %d:%d", target, uid, gid),
		fmt.Sprintf("chown %d:%d %s", uid, gid, target),
	)
}

func storageFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "storage",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
