//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package mount

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/privilege"
	"github.com/rayleyva/eden/provider/system"
	"github.com/rayleyva/eden/storage"
)

const (
	// MountApfsPath is the absolute path of the mount_apfs binary.
	MountApfsPath = "/sbin/mount_apfs"

	// Mounted volumes are hidden from the Finder and may not be used to
	// access device nodes or setuid binaries.
	mountOptions = "-onobrowse,nodev,nosuid"
)

type (
	// SystemProvider defines a set of methods to be implemented by a provider
	// of system capabilities.
	SystemProvider interface {
		system.OwnershipProvider
		system.ChownProvider
		system.MountSourceProvider
	}

	// Catalog defines a set of methods to be implemented by a provider
	// of the APFS volume catalog.
	Catalog interface {
		ListContainers() (storage.ApfsContainers, error)
		CreateVolume(storage.VolumeLabel) (*storage.ApfsVolume, error)
		UnmountVolume(vol *storage.ApfsVolume, force bool) error
		DeleteVolume(vol *storage.ApfsVolume) error
	}

	// PrivilegedRunner defines a set of methods to be implemented by a
	// provider of the caller identity and root command execution.
	PrivilegedRunner interface {
		Identity() privilege.Identity
		IsElevated() bool
		RunPrivileged(path string, args ...string) ([]byte, error)
	}

	// Provider implements the managed volume operations.
	Provider struct {
		log     logging.Logger
		sys     SystemProvider
		catalog Catalog
		runner  PrivilegedRunner
	}
)

// DefaultProvider returns an initialized *Provider suitable for use with production code.
func DefaultProvider(log logging.Logger, runner PrivilegedRunner, catalog Catalog) *Provider {
	return NewProvider(log, system.DefaultProvider(), catalog, runner)
}

// NewProvider returns an initialized *Provider.
func NewProvider(log logging.Logger, sys SystemProvider, catalog Catalog, runner PrivilegedRunner) *Provider {
	return &Provider{
		log:     log,
		sys:     sys,
		catalog: catalog,
		runner:  runner,
	}
}

func (p *Provider) findVolume(target string) (*storage.ApfsVolume, error) {
	containers, err := p.catalog.ListContainers()
	if err != nil {
		return nil, err
	}

	return containers.FindByLabel(storage.EncodeVolumeLabel(target)), nil
}

// List returns the APFS volume catalog, restricted to managed volumes
// unless all volumes are requested.
func (p *Provider) List(req storage.ListRequest) (*storage.ListResponse, error) {
	if p == nil {
		return nil, errors.New("nil mount provider")
	}

	containers, err := p.catalog.ListContainers()
	if err != nil {
		return nil, err
	}
	if !req.All {
		containers = containers.Managed()
	}

	return &storage.ListResponse{Containers: containers}, nil
}

// Mount mounts the managed volume for the requested target on it,
// creating the volume if necessary. The target must be a directory owned
// by the caller.
//
// If the target ownership cannot be restored after mounting, the volume
// is left mounted and the response is returned along with the error.
func (p *Provider) Mount(req storage.MountRequest) (*storage.MountResponse, error) {
	if p == nil {
		return nil, errors.New("nil mount provider")
	}
	if !p.runner.IsElevated() {
		return nil, privilege.FaultNotElevated()
	}
	target := req.Target

	fo, err := p.sys.GetOwnership(target)
	if err != nil {
		return nil, errors.Wrapf(err, "obtaining filesystem metadata for %s", target)
	}
	if !fo.IsDir {
		return nil, storage.FaultTargetNotDirectory(target)
	}

	id := p.runner.Identity()
	if fo.UID != id.UID {
		return nil, storage.FaultTargetNotOwned(target, fo.UID, id.UID)
	}

	label := storage.EncodeVolumeLabel(target)
	vol, err := p.findVolume(target)
	if err != nil {
		return nil, err
	}

	resp := &storage.MountResponse{
		Target: target,
		UID:    fo.UID,
		GID:    fo.GID,
	}

	// Never mount over something else, and never disturb an existing
	// volume before that has been ruled out.
	src, mounted, err := p.sys.GetMountSource(target)
	if err != nil {
		return nil, err
	}
	switch {
	case mounted && (vol == nil || src != vol.DevicePath()):
		return nil, storage.FaultTargetAlreadyMounted(target, src)
	case mounted:
		resp.AlreadyMounted = true
	case vol != nil && vol.MountPoint == target:
		resp.AlreadyMounted = true
	}

	switch {
	case vol == nil:
		vol, err = p.catalog.CreateVolume(label)
		if err != nil {
			return nil, err
		}
		resp.Created = true
	case !resp.AlreadyMounted && vol.IsMounted():
		// Most likely auto-mounted under /Volumes at boot.
		p.log.Debugf("%s is mounted at %s; unmounting", vol.DeviceIdentifier, vol.MountPoint)
		if err := p.catalog.UnmountVolume(vol, true); err != nil {
			return nil, err
		}
		resp.MovedFrom = vol.MountPoint
	}
	resp.DeviceIdentifier = vol.DeviceIdentifier

	if resp.AlreadyMounted {
		p.log.Debugf("%s is already mounted at %s", vol.DeviceIdentifier, target)
	} else {
		p.log.Debugf("mounting %s at %s for %d:%d", vol.DevicePath(), target, fo.UID, fo.GID)
		_, err := p.runner.RunPrivileged(MountApfsPath,
			mountOptions,
			"-u", strconv.FormatUint(uint64(fo.UID), 10),
			"-g", strconv.FormatUint(uint64(fo.GID), 10),
			vol.DevicePath(), target)
		if err != nil {
			return nil, errors.Wrapf(err, "mounting %s on %s", vol.DevicePath(), target)
		}
	}

	// The root of a freshly mounted volume is owned by root.
	if err := p.sys.Chown(target, fo.UID, fo.GID); err != nil {
		return resp, storage.FaultTargetChownFailed(target, fo.UID, fo.GID).
			WithReason(err.Error())
	}

	return resp, nil
}

// Unmount unmounts the managed volume for the requested target.
func (p *Provider) Unmount(req storage.UnmountRequest) (*storage.UnmountResponse, error) {
	if p == nil {
		return nil, errors.New("nil mount provider")
	}

	vol, err := p.findVolume(req.Target)
	if err != nil {
		return nil, err
	}
	if vol == nil {
		return nil, storage.FaultVolumeNotFound(req.Target)
	}

	if err := p.catalog.UnmountVolume(vol, req.Force); err != nil {
		return nil, err
	}

	return &storage.UnmountResponse{
		Target:           req.Target,
		DeviceIdentifier: vol.DeviceIdentifier,
	}, nil
}

// Delete deletes the managed volume for the requested target. The volume
// manager unmounts it first if required.
func (p *Provider) Delete(req storage.DeleteRequest) (*storage.DeleteResponse, error) {
	if p == nil {
		return nil, errors.New("nil mount provider")
	}

	vol, err := p.findVolume(req.Target)
	if err != nil {
		return nil, err
	}
	if vol == nil {
		return nil, storage.FaultVolumeNotFound(req.Target)
	}

	if err := p.catalog.DeleteVolume(vol); err != nil {
		return nil, err
	}

	return &storage.DeleteResponse{
		Target:           req.Target,
		DeviceIdentifier: vol.DeviceIdentifier,
	}, nil
}
