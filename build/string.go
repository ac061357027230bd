//
// (C) Copyright 2023 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package build

import (
	"fmt"
	"strings"
)

// devVersion is reported when the build did not stamp a version.
const devVersion = "0.0.0-dev"

func shortRevision(rev string, n int) string {
	if len(rev) > n {
		return rev[:n]
	}
	return rev
}

// versionString returns HelperVersion with the VCS revision appended as
// semver build metadata for non-release builds, e.g. 1.2.0+g0123456.dirty.
func versionString() string {
	version := HelperVersion
	if version == "" || version == "unset" {
		version = devVersion
	}
	if ReleaseBuild || Revision == "" {
		return version
	}

	var meta []string
	switch VCS {
	case "git":
		meta = append(meta, "g"+shortRevision(Revision, 7))
	case "hg":
		meta = append(meta, "hg"+shortRevision(Revision, 12))
	default:
		meta = append(meta, Revision)
	}
	if DirtyBuild {
		meta = append(meta, "dirty")
	}

	return version + "+" + strings.Join(meta, ".")
}

// String returns the name and version of the binary, including the
// revision for non-release builds.
func String(name string) string {
	return fmt.Sprintf("%s version %s", name, versionString())
}
