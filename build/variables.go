//
// (C) Copyright 2020-2023 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

// Package build provides an importable repository of variables set at build time.
package build

var (
	// ConfigDir should be set via linker flag using the value of CONF_DIR.
	ConfigDir = "/etc/eden"
	// HelperVersion should be set via linker flag using the value of EDEN_VERSION.
	HelperVersion = "unset"
	// Revision is the VCS revision the binary was built from.
	Revision = ""
	// VCS is the version control system used to build the binary.
	VCS = ""
	// DirtyBuild is true if the build tree had uncommitted changes.
	DirtyBuild = false
	// ReleaseBuild is true for release builds.
	ReleaseBuild = false

	// HelperName defines a consistent name for the mount helper.
	HelperName = "eden_apfs_mount_helper"
	// ConfigFileName is the name of the helper's config file within ConfigDir.
	ConfigFileName = "apfs_mount_helper.yml"
	// DefaultPlistDecoder selects the volume listing decoder when the
	// config file does not name one.
	DefaultPlistDecoder = "native"
	// DefaultContainer is the APFS container new volumes are added to.
	DefaultContainer = "disk1"
)
