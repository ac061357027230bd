//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package apfs

import (
	"github.com/pkg/errors"

	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/storage"
)

const (
	// DiskutilPath is the absolute path of the diskutil binary.
	DiskutilPath = "/usr/sbin/diskutil"
	// DefaultContainer is the container new volumes are added to.
	DefaultContainer = "disk1"
)

type (
	// CmdRunner runs external commands as the invoking user.
	CmdRunner interface {
		RunUnprivileged(stdin []byte, path string, args ...string) ([]byte, error)
	}

	// Provider queries and modifies the APFS volume catalog via diskutil.
	// Every command it runs is de-privileged to the invoking user.
	Provider struct {
		log       logging.Logger
		runner    CmdRunner
		decoder   Decoder
		container string
	}
)

// NewProvider returns an APFS catalog provider which adds new volumes
// to the given container.
func NewProvider(log logging.Logger, runner CmdRunner, decoder Decoder, container string) *Provider {
	if decoder == nil {
		decoder = &NativeDecoder{}
	}
	if container == "" {
		container = DefaultContainer
	}

	return &Provider{
		log:       log,
		runner:    runner,
		decoder:   decoder,
		container: container,
	}
}

// DefaultProvider returns an APFS catalog provider using the native
// decoder and the default container.
func DefaultProvider(log logging.Logger, runner CmdRunner) *Provider {
	return NewProvider(log, runner, nil, "")
}

func (p *Provider) diskutil(args ...string) ([]byte, error) {
	return p.runner.RunUnprivileged(nil, DiskutilPath, args...)
}

// ListContainers returns the current set of APFS containers and volumes.
func (p *Provider) ListContainers() (storage.ApfsContainers, error) {
	out, err := p.diskutil("apfs", "list", "-plist")
	if err != nil {
		return nil, errors.Wrap(err, "listing apfs volumes")
	}

	containers, err := p.decoder.Decode(out)
	if err != nil {
		return nil, err
	}
	p.log.Debugf("%s decoder found %d volumes in %d containers",
		p.decoder.Name(), containers.VolumeCount(), len(containers))

	return containers, nil
}

// CreateVolume adds a new, unmounted volume with the given label and
// returns its catalog record.
func (p *Provider) CreateVolume(label storage.VolumeLabel) (*storage.ApfsVolume, error) {
	if !label.IsManaged() {
		return nil, errors.Errorf("refusing to create volume with unmanaged label %q", label)
	}

	p.log.Debugf("creating volume %q in %s", label, p.container)
	if _, err := p.diskutil("apfs", "addVolume", p.container, "apfs", label.String(), "-nomount"); err != nil {
		return nil, errors.Wrapf(err, "creating volume %q", label)
	}

	containers, err := p.ListContainers()
	if err != nil {
		return nil, err
	}

	vol := containers.FindByLabel(label)
	if vol == nil {
		return nil, storage.FaultVolumeNotRelocated(label)
	}

	return vol, nil
}

// UnmountVolume unmounts the volume, forcibly if requested.
func (p *Provider) UnmountVolume(vol *storage.ApfsVolume, force bool) error {
	args := []string{"unmount"}
	if force {
		args = append(args, "force")
	}
	args = append(args, vol.DeviceIdentifier)

	p.log.Debugf("unmounting %s (force: %t)", vol, force)
	if _, err := p.diskutil(args...); err != nil {
		return errors.Wrapf(err, "unmounting %s", vol.DeviceIdentifier)
	}

	return nil
}

// DeleteVolume deletes the volume, unmounting it first if necessary.
func (p *Provider) DeleteVolume(vol *storage.ApfsVolume) error {
	p.log.Debugf("deleting %s", vol)
	if _, err := p.diskutil("apfs", "deleteVolume", vol.DeviceIdentifier); err != nil {
		return errors.Wrapf(err, "deleting %s", vol.DeviceIdentifier)
	}

	return nil
}
