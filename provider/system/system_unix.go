//
// (C) Copyright 2019-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

//go:build darwin || linux

package system

import (
	"os"

	"github.com/moby/sys/mountinfo"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultProvider returns the package-default provider implementation.
func DefaultProvider() *UnixProvider {
	return &UnixProvider{}
}

// UnixProvider encapsulates unix-specific implementations of system
// interfaces.
type UnixProvider struct{}

// GetOwnership returns the owner and type of path. Symlinks are followed.
func (s UnixProvider) GetOwnership(path string) (*FileOwnership, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}

	return &FileOwnership{
		UID:   st.Uid,
		GID:   st.Gid,
		Mode:  os.FileMode(st.Mode & 0777),
		IsDir: st.Mode&unix.S_IFMT == unix.S_IFDIR,
	}, nil
}

// Chown changes the owner of path. Symlinks are followed.
func (s UnixProvider) Chown(path string, uid, gid uint32) error {
	if err := unix.Chown(path, int(uid), int(gid)); err != nil {
		return &os.PathError{Op: "chown", Path: path, Err: err}
	}
	return nil
}

// GetMountSource returns the source of the filesystem mounted at target.
// The boolean result is false if nothing is mounted there.
func (s UnixProvider) GetMountSource(target string) (string, bool, error) {
	mounts, err := mountinfo.GetMounts(mountinfo.SingleEntryFilter(target))
	if err != nil {
		return "", false, errors.Wrapf(err, "reading mount table for %s", target)
	}
	if len(mounts) == 0 {
		return "", false, nil
	}

	return mounts[len(mounts)-1].Source, true, nil
}
